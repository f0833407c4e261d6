package mcp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	internalApp "github.com/felixgeelhaar/hireflow/internal/app"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestToolset(t *testing.T) *toolset {
	t.Helper()
	cfg := &config.Config{
		AppEnv:             "test",
		SQLitePath:         filepath.Join(t.TempDir(), "mcp.db"),
		BusyLookaheadDays:  14,
		MeetingLinkTimeout: time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	app := cli.NewApp(c, sharedDomain.NewActor(sharedDomain.RoleEmployer, "acme"))
	return newToolset(ToolDependencies{App: app, Logger: logger})
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	app := &cli.App{}
	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: app}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if name, ok := tool["name"].(string); ok {
			names[name] = true
		}
	}
	for _, want := range []string{
		"cli.whoami",
		"interview.create", "interview.propose", "interview.select", "interview.confirm",
		"interview.reschedule", "interview.complete", "interview.cancel", "interview.show", "interview.list",
		"intro.request", "intro.respond", "intro.advance", "intro.view",
		"team.add", "candidate.set_profile",
	} {
		assert.True(t, names[want], "%s should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})
	assert.Error(t, RegisterCLITools(srv, ToolDependencies{}))
	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
}

func TestToolset_Actor(t *testing.T) {
	tools := &toolset{app: &cli.App{Actor: sharedDomain.NewActor(sharedDomain.RoleEmployer, "acme")}}

	out, err := tools.whoami(context.Background(), whoamiInput{})
	require.NoError(t, err)
	assert.Equal(t, "employer", out.Role)
	assert.Equal(t, "acme", out.ID)

	out, err = tools.whoami(context.Background(), whoamiInput{As: "candidate:cand-1"})
	require.NoError(t, err)
	assert.Equal(t, "candidate", out.Role)

	_, err = tools.whoami(context.Background(), whoamiInput{As: "system:sweeper"})
	assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
	assert.Contains(t, err.Error(), "[Forbidden]")
}

func TestTools_IntroductionAndInterviewFlow(t *testing.T) {
	tools := newTestToolset(t)
	ctx := context.Background()

	email := "ada@example.com"
	_, err := tools.candidateSetProfile(ctx, candidateProfileInput{As: "candidate:cand-1", Name: "Ada", Email: &email})
	require.NoError(t, err)

	view, err := tools.introView(ctx, introViewInput{CandidateID: "cand-1"})
	require.NoError(t, err)
	assert.Nil(t, view.Email)

	intro, err := tools.introRequest(ctx, introRequestInput{CandidateID: "cand-1"})
	require.NoError(t, err)

	_, err = tools.introRequest(ctx, introRequestInput{CandidateID: "cand-1"})
	assert.Equal(t, sharedDomain.KindAlreadyRequested, sharedDomain.KindOf(err))

	intro, err = tools.introRespond(ctx, introRespondInput{As: "candidate:cand-1", IntroductionID: intro.ID, Accept: true})
	require.NoError(t, err)
	assert.Equal(t, "INTRODUCED", string(intro.Status))

	view, err = tools.introView(ctx, introViewInput{CandidateID: "cand-1"})
	require.NoError(t, err)
	require.NotNil(t, view.Email)
	assert.Equal(t, email, *view.Email)

	_, err = tools.teamAdd(ctx, teamMemberInput{UserID: "int-1", Name: "Grace"})
	require.NoError(t, err)
	team, err := tools.teamList(ctx, teamListInput{})
	require.NoError(t, err)
	require.Len(t, team.Members, 1)

	created, err := tools.interviewCreate(ctx, interviewCreateInput{
		ApplicationID:   "6f1c9a52-2f43-4a4a-9b8f-1d0f3e1b2c3d",
		CandidateID:     "cand-1",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING_AVAILABILITY", created.Status)
	id := created.ID.String()

	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	_, err = tools.interviewPropose(ctx, interviewProposeInput{InterviewID: id, Starts: []string{past}})
	assert.Equal(t, sharedDomain.KindPastTime, sharedDomain.KindOf(err))

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	proposed, err := tools.interviewPropose(ctx, interviewProposeInput{
		InterviewID: id,
		Starts:      []string{start.Format(time.RFC3339), start.Add(3 * time.Hour).Format(time.RFC3339)},
	})
	require.NoError(t, err)
	require.Len(t, proposed.Slots, 2)

	selected, err := tools.interviewSelect(ctx, interviewSelectInput{
		As:          "candidate:cand-1",
		InterviewID: id,
		SlotIDs:     []string{proposed.Slots[1].ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, selected.Slots, 1)

	scheduled, err := tools.interviewConfirm(ctx, interviewConfirmInput{InterviewID: id, InterviewerID: "int-1"})
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULED", scheduled.Status)
	require.NotNil(t, scheduled.ScheduledAt)
	assert.True(t, scheduled.ScheduledAt.Equal(start.Add(3*time.Hour)))

	list, err := tools.interviewList(ctx, interviewListInput{As: "candidate:cand-1", Stage: "upcoming"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)

	shown, err := tools.introShow(ctx, introShowInput{IntroductionID: intro.ID})
	require.NoError(t, err)
	assert.Equal(t, "INTERVIEWING", string(shown.Status))

	cancelled, err := tools.interviewCancel(ctx, interviewStatusInput{InterviewID: id, Reason: "role filled"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
}

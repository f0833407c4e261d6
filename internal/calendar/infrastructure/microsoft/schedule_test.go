package microsoft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var _ services.BusyTimeSource = (*ScheduleSource)(nil)

var tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "graph-token"})

func TestScheduleSource_BusyTimes(t *testing.T) {
	start := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	var got scheduleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/hiring@acme.test/calendar/getSchedule", r.URL.Path)
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"value":[{"scheduleId":"hiring@acme.test","scheduleItems":[
			{"status":"busy","subject":"Standup","start":{"dateTime":"2026-03-03T09:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-03-03T09:30:00.0000000","timeZone":"UTC"}},
			{"status":"free","subject":"Focus","start":{"dateTime":"2026-03-03T11:00:00","timeZone":"UTC"},"end":{"dateTime":"2026-03-03T12:00:00","timeZone":"UTC"}},
			{"status":"oof","start":{"dateTime":"2026-03-03T15:00:00","timeZone":"UTC"},"end":{"dateTime":"2026-03-03T17:00:00","timeZone":"UTC"}}
		]}]}`))
	}))
	defer server.Close()

	source := NewScheduleSource(tokens, "hiring@acme.test", nil).WithBaseURL(server.URL)
	busy, err := source.BusyTimes(context.Background(), "acme", schedDomain.IntervalOf(start, 24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, []string{"hiring@acme.test"}, got.Schedules)
	assert.Equal(t, "2026-03-03T00:00:00", got.StartTime.DateTime)
	assert.Equal(t, "UTC", got.EndTime.TimeZone)
	require.Len(t, busy, 2)
	assert.Equal(t, "Standup", busy[0].Label)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, BusyLabel, busy[1].Label)
	assert.Equal(t, time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC), busy[1].End)
}

func TestScheduleSource_MailboxError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":[{"scheduleId":"x@acme.test","error":{"message":"not found","responseCode":"ErrorMailboxNotFound"}}]}`))
	}))
	defer server.Close()

	source := NewScheduleSource(tokens, "x@acme.test", nil).WithBaseURL(server.URL)
	busy, err := source.BusyTimes(context.Background(), "acme", schedDomain.IntervalOf(time.Now(), time.Hour))

	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestScheduleSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewScheduleSource(tokens, "hiring@acme.test", nil).WithBaseURL(server.URL)
	_, err := source.BusyTimes(context.Background(), "acme", schedDomain.IntervalOf(time.Now(), time.Hour))

	assert.ErrorContains(t, err, "status=401")
}

func TestScheduleSource_NoMailbox(t *testing.T) {
	source := NewScheduleSource(tokens, "", nil).WithMailboxResolver(func(string) []string { return nil })
	busy, err := source.BusyTimes(context.Background(), "acme", schedDomain.IntervalOf(time.Now(), time.Hour))
	require.NoError(t, err)
	assert.Nil(t, busy)
}

type failingTokens struct{}

func (failingTokens) Token() (*oauth2.Token, error) { return nil, errors.New("token expired") }

func TestScheduleSource_TokenError(t *testing.T) {
	source := NewScheduleSource(failingTokens{}, "hiring@acme.test", nil).WithBaseURL("http://127.0.0.1:0")
	_, err := source.BusyTimes(context.Background(), "acme", schedDomain.IntervalOf(time.Now(), time.Hour))
	assert.ErrorContains(t, err, "token expired")
}

func TestParseGraphTime(t *testing.T) {
	got, err := parseGraphTime(dateTimeTimeZone{DateTime: "2026-03-03T10:00:00", TimeZone: "Europe/Berlin"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), got)

	_, err = parseGraphTime(dateTimeTimeZone{DateTime: "garbage", TimeZone: "UTC"})
	assert.Error(t, err)
}

func TestCredentials_Configured(t *testing.T) {
	assert.False(t, Credentials{ClientID: "a"}.Configured())
	assert.True(t, Credentials{TenantID: "t", ClientID: "a", ClientSecret: "s"}.Configured())
}

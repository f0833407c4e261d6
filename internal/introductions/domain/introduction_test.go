package domain

import (
	"encoding/json"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start     = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	employer  = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
	candidate = sharedDomain.NewActor(sharedDomain.RoleCandidate, "cand-1")
)

func newIntro(t *testing.T) *Introduction {
	t.Helper()
	i, err := NewIntroduction("cand-1", "emp-1", start)
	require.NoError(t, err)
	return i
}

func introduced(t *testing.T) *Introduction {
	t.Helper()
	i := newIntro(t)
	require.NoError(t, i.Request(employer, start))
	require.NoError(t, i.Accept(candidate, start.Add(time.Hour), 90*24*time.Hour))
	return i
}

func TestRequest(t *testing.T) {
	t.Run("from none then already requested", func(t *testing.T) {
		i := newIntro(t)
		require.NoError(t, i.Request(employer, start))

		assert.Equal(t, StatusIntroRequested, i.Status())
		require.NotNil(t, i.RequestedAt())
		assert.Equal(t, start, *i.RequestedAt())

		err := i.Request(employer, start.Add(time.Hour))
		assert.Equal(t, sharedDomain.KindAlreadyRequested, sharedDomain.KindOf(err))
		assert.Equal(t, start, *i.RequestedAt())
	})

	t.Run("after profile view", func(t *testing.T) {
		i := newIntro(t)
		assert.True(t, i.RecordProfileView(start))
		assert.False(t, i.RecordProfileView(start))
		require.NoError(t, i.Request(employer, start))
	})

	t.Run("candidate cannot request", func(t *testing.T) {
		err := newIntro(t).Request(candidate, start)
		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
	})

	t.Run("other employer cannot request", func(t *testing.T) {
		err := newIntro(t).Request(sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-2"), start)
		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
	})

	t.Run("terminal states reject a new request", func(t *testing.T) {
		i := newIntro(t)
		require.NoError(t, i.Request(employer, start))
		require.NoError(t, i.Decline(candidate, start))

		err := i.Request(employer, start)
		assert.Equal(t, sharedDomain.KindInvalidTransition, sharedDomain.KindOf(err))
	})
}

func TestRespond(t *testing.T) {
	t.Run("accept records protection period", func(t *testing.T) {
		i := introduced(t)

		assert.Equal(t, StatusIntroduced, i.Status())
		assert.True(t, i.ExposesContact())
		assert.Equal(t, start.Add(time.Hour), *i.RespondedAt())
		assert.Equal(t, start.Add(time.Hour).Add(90*24*time.Hour), *i.ProtectionEndsAt())
	})

	t.Run("employer cannot accept", func(t *testing.T) {
		i := newIntro(t)
		require.NoError(t, i.Request(employer, start))

		err := i.Accept(employer, start, 0)
		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
	})

	t.Run("accept without request", func(t *testing.T) {
		err := newIntro(t).Accept(candidate, start, 0)
		assert.Equal(t, sharedDomain.KindInvalidTransition, sharedDomain.KindOf(err))
	})
}

func TestHiringPipeline(t *testing.T) {
	i := introduced(t)

	require.NoError(t, i.StartInterviewing(sharedDomain.SystemActor, start))
	assert.Equal(t, StageHiring, i.Stage())
	require.NoError(t, i.ExtendOffer(employer, start))
	require.NoError(t, i.MarkHired(employer, start))
	assert.Equal(t, StageHired, i.Stage())
	assert.True(t, i.Status().IsTerminal())

	err := i.CloseNoHire(employer, start)
	assert.Equal(t, sharedDomain.KindInvalidTransition, sharedDomain.KindOf(err))

	var routes []string
	for _, e := range i.DomainEvents() {
		routes = append(routes, e.(*StatusChanged).To)
	}
	assert.Equal(t, []string{"INTRO_REQUESTED", "INTRODUCED", "INTERVIEWING", "OFFER_EXTENDED", "HIRED"}, routes)
}

func TestCloseNoHire(t *testing.T) {
	for _, advance := range []func(*Introduction) error{
		func(*Introduction) error { return nil },
		func(i *Introduction) error { return i.StartInterviewing(employer, start) },
		func(i *Introduction) error {
			if err := i.StartInterviewing(employer, start); err != nil {
				return err
			}
			return i.ExtendOffer(employer, start)
		},
	} {
		i := introduced(t)
		require.NoError(t, advance(i))
		require.NoError(t, i.CloseNoHire(employer, start))
		assert.Equal(t, StatusClosedNoHire, i.Status())
	}
}

func TestExpireIfDue(t *testing.T) {
	i := newIntro(t)
	require.NoError(t, i.Request(employer, start))

	assert.False(t, i.ExpireIfDue(start.Add(DefaultExpiryWindow-time.Second), DefaultExpiryWindow))
	assert.True(t, i.ExpireIfDue(start.Add(DefaultExpiryWindow), DefaultExpiryWindow))
	assert.Equal(t, StatusExpired, i.Status())
	assert.False(t, i.ExpireIfDue(start.Add(2*DefaultExpiryWindow), DefaultExpiryWindow))

	assert.False(t, introduced(t).ExpireIfDue(start.Add(365*24*time.Hour), DefaultExpiryWindow))
}

func TestGateProfile(t *testing.T) {
	email, phone, resume := "ada@example.com", "+1 555", "https://cv.example.com/ada"
	profile := CandidateProfile{
		ID:   "cand-1",
		Name: "Ada",
		Contact: ContactDetails{
			Email:     &email,
			Phone:     &phone,
			Links:     []string{"https://github.com/ada"},
			ResumeURL: &resume,
		},
	}

	exposing := map[Status]bool{}
	for _, s := range AllStatuses {
		exposing[s] = s.ExposesContact()
	}
	assert.Equal(t, map[Status]bool{
		StatusNone:              false,
		StatusProfileViewed:     false,
		StatusIntroRequested:    false,
		StatusIntroduced:        true,
		StatusCandidateDeclined: false,
		StatusExpired:           false,
		StatusInterviewing:      true,
		StatusOfferExtended:     true,
		StatusHired:             true,
		StatusClosedNoHire:      false,
	}, exposing)

	for _, s := range AllStatuses {
		t.Run(string(s), func(t *testing.T) {
			intro := RehydrateIntroduction(IntroductionState{CandidateID: "cand-1", EmployerID: "emp-1", Status: s})
			raw, err := json.Marshal(GateProfile(profile, intro))
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(raw, &fields))
			for _, key := range []string{"email", "phone", "links", "resumeUrl"} {
				if s.ExposesContact() {
					assert.NotNil(t, fields[key], key)
				} else {
					assert.Nil(t, fields[key], key)
				}
			}
			assert.Equal(t, "Ada", fields["name"])
		})
	}
}

func TestStageOfCoversEveryStatus(t *testing.T) {
	for _, s := range AllStatuses {
		assert.NotEmpty(t, StageOf(s), s)
	}
}

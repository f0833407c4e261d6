package zoom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, meetings http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "account_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "acct-1", r.PostForm.Get("account_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"zoom-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /v2/users/me/meetings", meetings)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func config(server *httptest.Server) Config {
	return Config{
		AccountID:    "acct-1",
		ClientID:     "client",
		ClientSecret: "secret",
		BaseURL:      server.URL + "/v2",
		TokenURL:     server.URL + "/oauth/token",
	}
}

func TestProvider_CreateMeeting(t *testing.T) {
	var got meetingRequest
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer zoom-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":123,"join_url":"https://zoom.us/j/123"}`))
	})

	provider := NewProvider(context.Background(), config(server), nil)
	link, err := provider.CreateMeeting(context.Background(), services.MeetingRequest{
		InterviewID: uuid.New(),
		Topic:       "Interview with Ada",
		Start:       time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC),
		Duration:    45 * time.Minute,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://zoom.us/j/123", link)
	assert.Equal(t, domain.PlatformZoom, provider.Platform())
	assert.Equal(t, "2026-03-03T14:00:00Z", got.StartTime)
	assert.Equal(t, 45, got.Duration)
	assert.Equal(t, scheduledMeeting, got.Type)
}

func TestProvider_CreateMeetingFailure(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	provider := NewProvider(context.Background(), config(server), nil)
	_, err := provider.CreateMeeting(context.Background(), services.MeetingRequest{InterviewID: uuid.New(), Start: time.Now(), Duration: time.Hour})

	assert.ErrorContains(t, err, "status=429")
}

func TestConfig_Configured(t *testing.T) {
	assert.False(t, Config{ClientID: "c"}.Configured())
	assert.True(t, Config{AccountID: "a", ClientID: "c", ClientSecret: "s"}.Configured())
}

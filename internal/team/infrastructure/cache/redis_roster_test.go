package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	ids   []string
	calls int
}

func (s *countingSource) Members(context.Context, string) ([]string, error) {
	s.calls++
	return s.ids, nil
}

func TestRedisCachedRoster_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	source := &countingSource{ids: []string{"u1"}}
	roster := NewRedisCachedRoster(client, source, time.Minute, nil)

	ids, err := roster.Members(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
	assert.Equal(t, 1, source.calls)
}

func TestRedisCachedRoster_CachesMembers(t *testing.T) {
	url := os.Getenv("HIREFLOW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HIREFLOW_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	employerID := "emp-cache-" + time.Now().Format("150405.000000")
	source := &countingSource{ids: []string{"u1", "u2"}}
	roster := NewRedisCachedRoster(client, source, time.Minute, nil)
	t.Cleanup(func() { _ = roster.Invalidate(ctx, employerID) })

	for range 3 {
		ids, err := roster.Members(ctx, employerID)
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, ids)
	}
	assert.Equal(t, 1, source.calls)

	require.NoError(t, roster.Invalidate(ctx, employerID))
	_, err = roster.Members(ctx, employerID)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

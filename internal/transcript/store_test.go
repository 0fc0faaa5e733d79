package transcript

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, time.Hour)
}

func TestAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "sess-1", Message{Role: "user", Text: "Hi Sylvia"}))
	require.NoError(t, s.Append(ctx, "sess-1", Message{Role: "assistant", Text: "Hey there!"}))

	msgs, err := s.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Hi Sylvia", msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
	assert.False(t, msgs[0].Timestamp.IsZero())
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.Append(ctx, "sess-1", Message{Role: "user", Text: text}))
	}

	msgs, err := s.List(ctx, "sess-1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "three", msgs[1].Text)
}

func TestListUnknownSession(t *testing.T) {
	s := newTestStore(t)

	msgs, err := s.List(context.Background(), "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "sess-1", Message{Role: "user", Text: "Hi"}))
	require.NoError(t, s.Clear(ctx, "sess-1"))

	msgs, err := s.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSessionIDRequired(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.Append(context.Background(), "", Message{Text: "x"}))
	_, err := s.List(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store

	assert.NoError(t, s.Append(context.Background(), "sess-1", Message{Text: "x"}))
	msgs, err := s.List(context.Background(), "sess-1", 0)
	assert.NoError(t, err)
	assert.Nil(t, msgs)
	assert.NoError(t, s.Clear(context.Background(), "sess-1"))
}

package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, prefix string) (*RedisRepository, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), prefix), m
}

func TestRedisRepository_CreateGetDelete(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	ctx := context.Background()
	s := &Session{
		TokenHash: HashToken("r1"),
		Sub:       "local:admin@ranw.tech",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}

	require.NoError(t, repo.Create(ctx, s))
	require.True(t, m.Exists("session:"+s.TokenHash))
	members, err := m.Members("session:sub:local:admin@ranw.tech")
	require.NoError(t, err)
	require.Equal(t, []string{s.TokenHash}, members)

	got, err := repo.Get(ctx, s.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.Sub, got.Sub)

	require.NoError(t, repo.Delete(ctx, s.TokenHash))
	got, err = repo.Get(ctx, s.TokenHash)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, repo.Delete(ctx, s.TokenHash))
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	repo, m := newRedisRepo(t, "test:session:")
	ctx := context.Background()
	s := &Session{TokenHash: HashToken("r2"), Sub: "sub-2", ExpiresAt: time.Now().UTC().Add(time.Second)}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(2 * time.Second)
	got, err = repo.Get(ctx, s.TokenHash)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepository_DeleteBySub(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)
	for _, tok := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, &Session{TokenHash: HashToken(tok), Sub: "sub-x", ExpiresAt: exp}))
	}
	require.NoError(t, repo.Create(ctx, &Session{TokenHash: HashToken("c"), Sub: "sub-y", ExpiresAt: exp}))

	n, err := repo.DeleteBySub(ctx, "sub-x")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.False(t, m.Exists("session:sub:sub-x"))
	require.True(t, m.Exists("session:"+HashToken("c")))

	n, err = repo.DeleteBySub(ctx, "nobody")
	require.NoError(t, err)
	require.Zero(t, n)
}

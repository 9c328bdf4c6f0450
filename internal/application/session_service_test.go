package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/redisstore"
)

func newSessionService(t *testing.T) (*SessionService, *memUserRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newMemUserRepo()
	return NewSessionService(redisstore.NewSessionStore(rdb, time.Hour), users, nil), users, mr
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	svc, users, _ := newSessionService(t)
	ctx := context.Background()

	u, err := users.Upsert(ctx, "a@x.com", "Ann", "p.jpg")
	require.NoError(t, err)

	id := svc.Serialize(u)
	assert.Equal(t, u.ID, id)

	got, err := svc.Deserialize(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestSessionCodec_DeletedUser(t *testing.T) {
	svc, users, _ := newSessionService(t)
	ctx := context.Background()

	u, err := users.Upsert(ctx, "a@x.com", "Ann", "")
	require.NoError(t, err)
	users.delete(u.ID)

	_, err = svc.Deserialize(ctx, svc.Serialize(u))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionCodec_StoreError(t *testing.T) {
	svc, users, _ := newSessionService(t)
	users.err = errors.New("db down")

	_, err := svc.Deserialize(context.Background(), "u-1")
	assert.ErrorIs(t, err, users.err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestSessionService_LoginRotatesSession(t *testing.T) {
	svc, users, mr := newSessionService(t)
	ctx := context.Background()

	oldSID, _, err := svc.BeginHandshake(ctx, "", "github")
	require.NoError(t, err)

	u, err := users.Upsert(ctx, "a@x.com", "Ann", "")
	require.NoError(t, err)

	sid, err := svc.Login(ctx, oldSID, u)
	require.NoError(t, err)
	assert.NotEqual(t, oldSID, sid)
	assert.False(t, mr.Exists("session:"+oldSID))

	sess, cur, err := svc.Current(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, u, cur)
}

func TestSessionService_CurrentAnonymous(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	sess, u, err := svc.Current(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, u)

	sess, u, err = svc.Current(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, u)
}

func TestSessionService_CurrentDropsStaleBinding(t *testing.T) {
	svc, users, mr := newSessionService(t)
	ctx := context.Background()

	u, err := users.Upsert(ctx, "a@x.com", "Ann", "")
	require.NoError(t, err)
	sid, err := svc.Login(ctx, "", u)
	require.NoError(t, err)
	users.delete(u.ID)

	sess, cur, err := svc.Current(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, cur)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, "", mr.HGet("session:"+sid, entity.SessionUserID))
}

func TestSessionService_HandshakeState(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	sid, state, err := svc.BeginHandshake(ctx, "", "github")
	require.NoError(t, err)
	require.NotEmpty(t, state)

	assert.ErrorIs(t, svc.ConsumeState(ctx, sid, "facebook", state), ErrStateMismatch, "wrong provider")

	sid2, state2, err := svc.BeginHandshake(ctx, sid, "github")
	require.NoError(t, err)
	assert.Equal(t, sid, sid2, "existing session reused")
	assert.NotEqual(t, state, state2)

	assert.ErrorIs(t, svc.ConsumeState(ctx, sid, "github", "forged"), ErrStateMismatch)

	_, state3, err := svc.BeginHandshake(ctx, sid, "github")
	require.NoError(t, err)
	require.NoError(t, svc.ConsumeState(ctx, sid, "github", state3))
	assert.ErrorIs(t, svc.ConsumeState(ctx, sid, "github", state3), ErrStateMismatch, "state is single use")

	assert.ErrorIs(t, svc.ConsumeState(ctx, "", "github", state3), ErrStateMismatch)
	assert.ErrorIs(t, svc.ConsumeState(ctx, "missing", "github", state3), ErrStateMismatch)
}

func TestSessionService_HandshakeUnknownSessionCreatesNew(t *testing.T) {
	svc, _, _ := newSessionService(t)

	sid, _, err := svc.BeginHandshake(context.Background(), "expired-sid", "facebook")
	require.NoError(t, err)
	assert.NotEqual(t, "expired-sid", sid)
}

func TestSessionService_Logout(t *testing.T) {
	svc, users, mr := newSessionService(t)
	ctx := context.Background()

	uid, err := svc.Logout(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, uid)

	uid, err = svc.Logout(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, uid)

	u, err := users.Upsert(ctx, "a@x.com", "Ann", "")
	require.NoError(t, err)
	sid, err := svc.Login(ctx, "", u)
	require.NoError(t, err)

	uid, err = svc.Logout(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
	assert.True(t, mr.Exists("session:"+sid), "session entry kept")

	_, cur, err := svc.Current(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, cur)

	uid, err = svc.Logout(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, uid, "second logout is a no-op")
}

package managers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) SessionMgr {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, newTestJWTManager(t))
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessionMgr := newTestSessionManager(t)

	session, cookieValue, err := sessionMgr.Start(ctx)
	require.NoError(t, err)
	assert.False(t, session.LoggedIn())

	loaded, err := sessionMgr.Load(ctx, cookieValue)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)

	loaded.UserID = uuid.New().String()
	loaded.Username = "alice_dev"
	require.NoError(t, sessionMgr.Save(ctx, loaded))

	reloaded, err := sessionMgr.Load(ctx, cookieValue)
	require.NoError(t, err)
	assert.True(t, reloaded.LoggedIn())
	assert.Equal(t, "alice_dev", reloaded.Username)
}

func TestSessionFlashesPopOnce(t *testing.T) {
	ctx := context.Background()
	sessionMgr := newTestSessionManager(t)

	session, cookieValue, err := sessionMgr.Start(ctx)
	require.NoError(t, err)

	session.AddFlash("info", "first")
	session.AddFlash("error", "second")
	require.NoError(t, sessionMgr.Save(ctx, session))

	loaded, err := sessionMgr.Load(ctx, cookieValue)
	require.NoError(t, err)

	flashes := loaded.PopFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, "first", flashes[0].Message)
	assert.Equal(t, "error", flashes[1].Level)
	require.NoError(t, sessionMgr.Save(ctx, loaded))

	reloaded, err := sessionMgr.Load(ctx, cookieValue)
	require.NoError(t, err)
	assert.Empty(t, reloaded.PopFlashes())
}

func TestSessionDestroy(t *testing.T) {
	ctx := context.Background()
	sessionMgr := newTestSessionManager(t)

	session, cookieValue, err := sessionMgr.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, sessionMgr.Destroy(ctx, session))

	_, err = sessionMgr.Load(ctx, cookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionLoadRejectsTamperedCookie(t *testing.T) {
	ctx := context.Background()
	sessionMgr := newTestSessionManager(t)

	_, cookieValue, err := sessionMgr.Start(ctx)
	require.NoError(t, err)

	_, err = sessionMgr.Load(ctx, cookieValue+"x")
	assert.Error(t, err)
}

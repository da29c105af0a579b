package credstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testCtx() context.Context {
	return logging.IntoContext(context.Background(), logging.Discard())
}

func TestGormStore_TokenRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := testCtx()

	_, ok := s.Token(ctx)
	assert.False(t, ok)

	s.PutToken(ctx, "abc")
	tok, ok := s.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", tok)

	s.PutToken(ctx, "def")
	tok, _ = s.Token(ctx)
	assert.Equal(t, "def", tok)

	s.DeleteToken(ctx)
	_, ok = s.Token(ctx)
	assert.False(t, ok)
}

func TestGormStore_UserInfoRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := testCtx()

	u := models.User{UserID: 1, Username: "alice", Email: "a@x.com", Roles: []string{"CUSTOMER"}, Address: "1 Main St"}
	s.PutUserInfo(ctx, u)

	got, ok := s.UserInfo(ctx)
	require.True(t, ok)
	assert.Equal(t, u, *got)

	s.DeleteUserInfo(ctx)
	_, ok = s.UserInfo(ctx)
	assert.False(t, ok)
}

func TestGormStore_DeleteMissingIsHarmless(t *testing.T) {
	s := newTestStore(t)
	ctx := testCtx()

	s.DeleteToken(ctx)
	s.DeleteUserInfo(ctx)

	_, ok := s.Token(ctx)
	assert.False(t, ok)
}

func TestGormStore_CorruptUserInfoIsAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := testCtx()

	require.NoError(t, s.put(ctx, UserInfoKey, "{not json"))
	_, ok := s.UserInfo(ctx)
	assert.False(t, ok)
}

func TestGormStore_FailuresAreAbsentNotFatal(t *testing.T) {
	s := newTestStore(t)
	ctx := testCtx()
	s.PutToken(ctx, "abc")

	require.NoError(t, s.Close())

	assert.NotPanics(t, func() {
		s.PutToken(ctx, "x")
		s.DeleteToken(ctx)
		s.PutUserInfo(ctx, models.User{Username: "bob"})
	})
	_, ok := s.Token(ctx)
	assert.False(t, ok)
	_, ok = s.UserInfo(ctx)
	assert.False(t, ok)
}

func TestGormStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	ctx := testCtx()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	s.PutToken(ctx, "persisted")
	s.PutUserInfo(ctx, models.User{UserID: 9, Username: "carol"})
	require.NoError(t, s.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	tok, ok := s2.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "persisted", tok)
	u, ok := s2.UserInfo(ctx)
	require.True(t, ok)
	assert.Equal(t, "carol", u.Username)
}

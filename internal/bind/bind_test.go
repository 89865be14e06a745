package bind

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/waves-rank/internal/config"
)

func openTemp(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), config.BindConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "db", "bind.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetUIDByGame(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	uid, err := s.GetUIDByGame(ctx, "10001", "onebot")
	require.NoError(t, err)
	assert.Empty(t, uid)

	require.NoError(t, s.Upsert(ctx, Bind{UserID: "10001", BotID: "onebot", GroupID: "g1", UID: "100000001_100000002"}))
	uid, err = s.GetUIDByGame(ctx, "10001", "onebot")
	require.NoError(t, err)
	assert.Equal(t, "100000001", uid)

	uid, err = s.GetUIDByGame(ctx, "10001", "qqgroup")
	require.NoError(t, err)
	assert.Empty(t, uid)
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.Upsert(ctx, Bind{UserID: "1", BotID: "b", GroupID: "g1", UID: "111"}))
	require.NoError(t, s.Upsert(ctx, Bind{UserID: "1", BotID: "b", GroupID: "g2", UID: "222"}))

	uid, err := s.GetUIDByGame(ctx, "1", "b")
	require.NoError(t, err)
	assert.Equal(t, "222", uid)

	g1, err := s.GetGroupAllUID(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, g1)
}

func TestUpsertPrivateKeepsGroup(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.Upsert(ctx, Bind{UserID: "1", BotID: "b", GroupID: "g1", UID: "111"}))
	require.NoError(t, s.Upsert(ctx, Bind{UserID: "1", BotID: "b", UID: "222"}))

	binds, err := s.GetGroupAllUID(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, binds, 1)
	assert.Equal(t, "222", binds[0].UID)
}

func TestGetGroupAllUID(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.Upsert(ctx, Bind{UserID: "2", BotID: "b", GroupID: "g", UID: "200_201"}))
	require.NoError(t, s.Upsert(ctx, Bind{UserID: "1", BotID: "b", GroupID: "g", UID: "100"}))
	require.NoError(t, s.Upsert(ctx, Bind{UserID: "3", BotID: "b", GroupID: "g", UID: ""}))
	require.NoError(t, s.Upsert(ctx, Bind{UserID: "4", BotID: "b", GroupID: "other", UID: "400"}))

	binds, err := s.GetGroupAllUID(ctx, "g")
	require.NoError(t, err)
	require.Len(t, binds, 2)
	assert.Equal(t, "1", binds[0].UserID)
	assert.Equal(t, []string{"200", "201"}, binds[1].UIDs())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.BindConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestBindUIDs(t *testing.T) {
	assert.Nil(t, Bind{}.UIDs())
	assert.Equal(t, []string{"1", "2"}, Bind{UID: "1__2_"}.UIDs())
}

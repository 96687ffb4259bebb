package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlayerSeed = `
- gsid: ABCDEFGH23
  gameVersion: BLACK_2
  dreamer:
    species: 571
    gender: MALE
    level: 40
- gsid: ZZZZZZZZZZ
  status: AWAKE
  gameVersion: WHITE
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeedPlayers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPlayerStore()
	path := writeSeed(t, testPlayerSeed)

	require.NoError(t, SeedPlayers(ctx, store, path, discardLogger()))

	p, err := store.Get(ctx, testGSID)
	require.NoError(t, err)
	assert.Equal(t, PlayerStatusSleeping, p.Status)
	assert.Equal(t, GameVersionBlack2, p.GameVersion)
	assert.Equal(t, PkmnInfo{Species: 571, Gender: PkmnGenderMale, Level: 40}, p.DreamerInfo)

	awake, err := store.Get(ctx, "ZZZZZZZZZZ")
	require.NoError(t, err)
	assert.Equal(t, PlayerStatusAwake, awake.Status)
}

func TestSeedPlayersKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPlayerStore()
	existing := samplePlayer(PlayerStatusWakeReady)
	require.NoError(t, store.Put(ctx, existing))

	require.NoError(t, SeedPlayers(ctx, store, writeSeed(t, testPlayerSeed), discardLogger()))

	p, err := store.Get(ctx, testGSID)
	require.NoError(t, err)
	assert.Equal(t, existing, p)
}

func TestSeedPlayersErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPlayerStore()

	require.NoError(t, SeedPlayers(ctx, store, "", discardLogger()))

	err := SeedPlayers(ctx, store, writeSeed(t, "- gsid: lowercase01\n"), discardLogger())
	assert.ErrorIs(t, err, ErrInvalidGameSyncID)

	err = SeedPlayers(ctx, store, writeSeed(t, "gsid: [broken"), discardLogger())
	assert.Error(t, err)

	err = SeedPlayers(ctx, store, filepath.Join(t.TempDir(), "missing.yaml"), discardLogger())
	require.ErrorIs(t, err, fs.ErrNotExist)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "PLAYER_SEED_READ_FAILED", oopsErr.Code())
}

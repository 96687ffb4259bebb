package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerGateOpen(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPlayerStore()
	require.NoError(t, store.Put(ctx, samplePlayer(PlayerStatusSleeping)))
	awake := samplePlayer(PlayerStatusAwake)
	awake.GameSyncID = "ZZZZZZZZZZ"
	require.NoError(t, store.Put(ctx, awake))
	gate := NewPlayerGate(store)

	_, err := gate.Open(ctx, "not-a-gsid")
	assert.ErrorIs(t, err, ErrInvalidGameSyncID)
	_, err = gate.Open(ctx, "2222222222")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = gate.Open(ctx, awake.GameSyncID)
	assert.ErrorIs(t, err, ErrPlayerAwake)

	p, err := gate.Open(ctx, testGSID)
	require.NoError(t, err)
	assert.Equal(t, testGSID, p.GameSyncID)
}

func TestPlayerGateAwakeLocksDashboard(t *testing.T) {
	for name, newStore := range playerStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			before := samplePlayer(PlayerStatusAwake)
			require.NoError(t, store.Put(ctx, before))
			gate := NewPlayerGate(store)

			_, err := gate.Profile(ctx, testGSID)
			require.ErrorIs(t, err, ErrUnauthorized)

			_, err = gate.UpdateProfile(ctx, testGSID, validRequest())
			require.ErrorIs(t, err, ErrUnauthorized)

			got, err := store.Get(ctx, testGSID)
			require.NoError(t, err)
			assert.Equal(t, before, got)
		})
	}
}

func TestPlayerGateNoSession(t *testing.T) {
	gate := NewPlayerGate(NewMemoryPlayerStore())
	_, err := gate.Profile(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = gate.UpdateProfile(context.Background(), testGSID, validRequest())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPlayerGateUpdateProfile(t *testing.T) {
	for name, newStore := range playerStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("valid payload commits and stays wake ready", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Put(ctx, samplePlayer(PlayerStatusWakeReady)))
				gate := NewPlayerGate(store)

				updated, err := gate.UpdateProfile(ctx, testGSID, validRequest())
				require.NoError(t, err)
				assert.Equal(t, PlayerStatusWakeReady, updated.Status)

				got, err := store.Get(ctx, testGSID)
				require.NoError(t, err)
				assert.Equal(t, PlayerStatusWakeReady, got.Status)
				assert.Equal(t, validRequest().Profile(), got.DreamProfile)
				assert.Equal(t, updated, got)
			})

			t.Run("sleeping player moves to wake ready", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Put(ctx, samplePlayer(PlayerStatusSleeping)))

				_, err := NewPlayerGate(store).UpdateProfile(ctx, testGSID, validRequest())
				require.NoError(t, err)
				got, err := store.Get(ctx, testGSID)
				require.NoError(t, err)
				assert.Equal(t, PlayerStatusWakeReady, got.Status)
			})

			t.Run("invalid payload leaves record unchanged", func(t *testing.T) {
				store := newStore(t)
				before := samplePlayer(PlayerStatusWakeReady)
				require.NoError(t, store.Put(ctx, before))

				req := validRequest()
				req.Encounters[0].Species = 0
				_, err := NewPlayerGate(store).UpdateProfile(ctx, testGSID, req)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "Species is out of range.", verr.Reason)

				got, err := store.Get(ctx, testGSID)
				require.NoError(t, err)
				assert.Equal(t, before, got)
			})
		})
	}
}

type failingCommitStore struct {
	*MemoryPlayerStore
}

func (s failingCommitStore) CommitProfile(context.Context, string, DreamProfile) error {
	return errors.New("write failed")
}

func TestPlayerGatePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := failingCommitStore{NewMemoryPlayerStore()}
	before := samplePlayer(PlayerStatusSleeping)
	require.NoError(t, store.Put(ctx, before))

	_, err := NewPlayerGate(store).UpdateProfile(ctx, testGSID, validRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	got, err := store.Get(ctx, testGSID)
	require.NoError(t, err)
	assert.Equal(t, before, got, "status and profile stay as they were")
}

package core

import (
	"context"
	"sync"

	"github.com/samber/oops"
)

// PlayerStore persists dream-session records.
type PlayerStore interface {
	// Get returns a snapshot of the player, or ErrNotFound.
	Get(ctx context.Context, gsid string) (Player, error)
	// Put creates or replaces a player record.
	Put(ctx context.Context, player Player) error
	// CommitProfile writes profile and sets status to WAKE_READY in one step.
	// It fails with ErrPlayerAwake, leaving the record untouched, when the
	// stored status is AWAKE at the time of the write.
	CommitProfile(ctx context.Context, gsid string, profile DreamProfile) error
}

// MemoryPlayerStore is a PlayerStore guarded by per-player locks.
type MemoryPlayerStore struct {
	mu      sync.RWMutex
	players map[string]*memoryPlayer
}

type memoryPlayer struct {
	mu     sync.Mutex
	player Player
}

func NewMemoryPlayerStore() *MemoryPlayerStore {
	return &MemoryPlayerStore{players: make(map[string]*memoryPlayer)}
}

func (s *MemoryPlayerStore) entry(gsid string) (*memoryPlayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.players[gsid]
	return e, ok
}

func (s *MemoryPlayerStore) Get(_ context.Context, gsid string) (Player, error) {
	e, ok := s.entry(gsid)
	if !ok {
		return Player{}, oops.Code("PLAYER_NOT_FOUND").With("gsid", gsid).Wrap(ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.clone(), nil
}

func (s *MemoryPlayerStore) Put(_ context.Context, player Player) error {
	s.mu.Lock()
	e, ok := s.players[player.GameSyncID]
	if !ok {
		e = &memoryPlayer{}
		s.players[player.GameSyncID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.player = player.clone()
	return nil
}

func (s *MemoryPlayerStore) CommitProfile(_ context.Context, gsid string, profile DreamProfile) error {
	e, ok := s.entry(gsid)
	if !ok {
		return oops.Code("PLAYER_NOT_FOUND").With("gsid", gsid).Wrap(ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player.Status == PlayerStatusAwake {
		return oops.Code("PLAYER_AWAKE").With("gsid", gsid).Wrap(ErrPlayerAwake)
	}
	e.player.DreamProfile = profile.clone()
	e.player.Status = PlayerStatusWakeReady
	return nil
}

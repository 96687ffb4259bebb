package core

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// ErrUnauthorized is returned when the dashboard may not touch a player.
var ErrUnauthorized = errors.New("unauthorized")

// PlayerGate decides when the dashboard may read or write a player's dream profile.
// Access is allowed only while the device does not own the session (status != AWAKE).
type PlayerGate struct {
	players PlayerStore
}

func NewPlayerGate(players PlayerStore) *PlayerGate {
	return &PlayerGate{players: players}
}

// Open checks that gsid names an existing, non-awake player before a dashboard
// session is established. Errors are ErrInvalidGameSyncID, ErrNotFound,
// ErrPlayerAwake or a storage failure.
func (g *PlayerGate) Open(ctx context.Context, gsid string) (Player, error) {
	if !IsValidGameSyncID(gsid) {
		return Player{}, ErrInvalidGameSyncID
	}
	player, err := g.players.Get(ctx, gsid)
	if err != nil {
		return Player{}, err
	}
	if player.Status == PlayerStatusAwake {
		return Player{}, ErrPlayerAwake
	}
	return player, nil
}

// Profile returns a snapshot for the dashboard, or ErrUnauthorized when there
// is no session player or the player is awake.
func (g *PlayerGate) Profile(ctx context.Context, gsid string) (Player, error) {
	if gsid == "" {
		return Player{}, ErrUnauthorized
	}
	player, err := g.players.Get(ctx, gsid)
	if errors.Is(err, ErrNotFound) {
		return Player{}, oops.Code("DASHBOARD_UNAUTHORIZED").With("gsid", gsid).Wrap(ErrUnauthorized)
	}
	if err != nil {
		return Player{}, err
	}
	if player.Status == PlayerStatusAwake {
		return Player{}, oops.Code("DASHBOARD_UNAUTHORIZED").With("gsid", gsid).With("status", player.Status).Wrap(ErrUnauthorized)
	}
	return player, nil
}

// UpdateProfile validates req against a fresh snapshot and commits it together
// with the WAKE_READY status. A *ValidationError is returned for bad payloads;
// nothing is written in that case.
func (g *PlayerGate) UpdateProfile(ctx context.Context, gsid string, req ProfileUpdateRequest) (Player, error) {
	player, err := g.Profile(ctx, gsid)
	if err != nil {
		return Player{}, err
	}
	if err := ValidateProfileUpdate(player, req); err != nil {
		return Player{}, err
	}

	profile := req.Profile()
	if err := g.players.CommitProfile(ctx, gsid, profile); err != nil {
		if errors.Is(err, ErrPlayerAwake) || errors.Is(err, ErrNotFound) {
			return Player{}, oops.Code("DASHBOARD_UNAUTHORIZED").With("gsid", gsid).Wrap(ErrUnauthorized)
		}
		return Player{}, err
	}

	player.Status = PlayerStatusWakeReady
	player.DreamProfile = profile
	return player, nil
}

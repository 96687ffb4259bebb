package core

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// seedPlayer is the YAML shape of a player created at startup.
type seedPlayer struct {
	GameSyncID  string       `yaml:"gsid"`
	Status      PlayerStatus `yaml:"status"`
	GameVersion GameVersion  `yaml:"gameVersion"`
	Dreamer     PkmnInfo     `yaml:"dreamer"`
}

// SeedPlayers creates the players listed in the YAML file at path.
// It is idempotent: players that already exist are left alone.
func SeedPlayers(ctx context.Context, store PlayerStore, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Code("PLAYER_SEED_READ_FAILED").With("path", path).Wrapf(err, "read player seed")
	}
	var seeds []seedPlayer
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return oops.Code("PLAYER_SEED_INVALID").With("path", path).Wrapf(err, "parse player seed")
	}

	for _, s := range seeds {
		if !IsValidGameSyncID(s.GameSyncID) {
			return oops.Code("PLAYER_SEED_INVALID").With("path", path).With("gsid", s.GameSyncID).Wrap(ErrInvalidGameSyncID)
		}
		_, err := store.Get(ctx, s.GameSyncID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		status := s.Status
		if status == "" {
			status = PlayerStatusSleeping
		}
		player := Player{
			GameSyncID:   s.GameSyncID,
			Status:       status,
			GameVersion:  s.GameVersion,
			DreamerInfo:  s.Dreamer,
			DreamProfile: DreamProfile{}.clone(),
		}
		if err := store.Put(ctx, player); err != nil {
			return err
		}
		logger.Info("seeded player", "gsid", s.GameSyncID, "status", status)
	}
	return nil
}

package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const playerKeyPrefix = "player:"

// PlayerRedis is the subset of go-redis used by RedisPlayerStore.
type PlayerRedis interface {
	redis.Scripter
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, oops.Code("REDIS_CONFIG_INVALID").Errorf("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, oops.Code("REDIS_CONFIG_INVALID").Wrap(err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_PING_FAILED").Wrap(err)
	}

	return client, nil
}

// commitProfileScript checks the status and writes the profile in one step.
// Returns -1 when the record is missing, 0 when the player is awake, 1 on success.
var commitProfileScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if not status then
  return -1
end
if status == ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[2], 'profile', ARGV[3])
return 1
`)

// playerInfo is the device-owned part of a player stored under the "info" field.
type playerInfo struct {
	GameSyncID  string      `json:"gameSyncId"`
	GameVersion GameVersion `json:"gameVersion"`
	DreamerInfo PkmnInfo    `json:"dreamerInfo"`
}

// RedisPlayerStore keeps each player in a hash with "status", "info" and "profile" fields.
type RedisPlayerStore struct {
	client PlayerRedis
}

func NewRedisPlayerStore(client PlayerRedis) *RedisPlayerStore {
	return &RedisPlayerStore{client: client}
}

func playerKey(gsid string) string {
	return playerKeyPrefix + gsid
}

func (s *RedisPlayerStore) Get(ctx context.Context, gsid string) (Player, error) {
	fields, err := s.client.HGetAll(ctx, playerKey(gsid)).Result()
	if err != nil {
		return Player{}, oops.Code("PLAYER_GET_FAILED").With("gsid", gsid).Wrap(err)
	}
	if len(fields) == 0 {
		return Player{}, oops.Code("PLAYER_NOT_FOUND").With("gsid", gsid).Wrap(ErrNotFound)
	}

	var info playerInfo
	if err := json.Unmarshal([]byte(fields["info"]), &info); err != nil {
		return Player{}, oops.Code("PLAYER_DECODE_FAILED").With("gsid", gsid).With("field", "info").Wrap(err)
	}
	var profile DreamProfile
	if raw := fields["profile"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return Player{}, oops.Code("PLAYER_DECODE_FAILED").With("gsid", gsid).With("field", "profile").Wrap(err)
		}
	}

	return Player{
		GameSyncID:   gsid,
		Status:       PlayerStatus(fields["status"]),
		GameVersion:  info.GameVersion,
		DreamerInfo:  info.DreamerInfo,
		DreamProfile: profile.clone(),
	}, nil
}

func (s *RedisPlayerStore) Put(ctx context.Context, player Player) error {
	info, err := json.Marshal(playerInfo{
		GameSyncID:  player.GameSyncID,
		GameVersion: player.GameVersion,
		DreamerInfo: player.DreamerInfo,
	})
	if err != nil {
		return oops.Code("PLAYER_ENCODE_FAILED").With("gsid", player.GameSyncID).Wrap(err)
	}
	profile, err := json.Marshal(player.DreamProfile)
	if err != nil {
		return oops.Code("PLAYER_ENCODE_FAILED").With("gsid", player.GameSyncID).Wrap(err)
	}

	err = s.client.HSet(ctx, playerKey(player.GameSyncID),
		"status", string(player.Status),
		"info", string(info),
		"profile", string(profile),
	).Err()
	if err != nil {
		return oops.Code("PLAYER_PUT_FAILED").With("gsid", player.GameSyncID).Wrap(err)
	}
	return nil
}

func (s *RedisPlayerStore) CommitProfile(ctx context.Context, gsid string, profile DreamProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return oops.Code("PLAYER_ENCODE_FAILED").With("gsid", gsid).Wrap(err)
	}

	res, err := commitProfileScript.Run(ctx, s.client, []string{playerKey(gsid)},
		string(PlayerStatusAwake), string(PlayerStatusWakeReady), string(data)).Int64()
	if err != nil {
		return oops.Code("PLAYER_COMMIT_FAILED").With("gsid", gsid).Wrap(err)
	}
	switch res {
	case -1:
		return oops.Code("PLAYER_NOT_FOUND").With("gsid", gsid).Wrap(ErrNotFound)
	case 0:
		return oops.Code("PLAYER_AWAKE").With("gsid", gsid).Wrap(ErrPlayerAwake)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// firstWinTTL keeps a day marker around past midnight in every timezone.
const firstWinTTL = 48 * time.Hour

// NewRedisClient инициализирует клиент Redis и проверяет соединение.
func NewRedisClient(endpoint, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     endpoint,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func jwtKeyName(playerID int) string {
	return "jwt:" + strconv.Itoa(playerID)
}

func fleetLockKey(formationID int) string {
	return "fleet_lock:" + strconv.Itoa(formationID)
}

func firstWinKey(playerID int, now time.Time) string {
	return fmt.Sprintf("first_win:%d:%s", playerID, now.UTC().Format(time.DateOnly))
}

// SaveJWTToken stores token in redis with TTL
func (r *Repository) SaveJWTToken(ctx context.Context, playerID int, token string) error {
	return r.redis.Set(ctx, jwtKeyName(playerID), token, r.jwtTTL).Err()
}

func (r *Repository) GetJWTToken(ctx context.Context, playerID int) (string, error) {
	return r.redis.Get(ctx, jwtKeyName(playerID)).Result()
}

func (r *Repository) DeleteJWTToken(ctx context.Context, playerID int) error {
	return r.redis.Del(ctx, jwtKeyName(playerID)).Err()
}

// AcquireFleetLock allows at most one battle per formation at a time. The
// returned token must be passed to ReleaseFleetLock.
func (r *Repository) AcquireFleetLock(ctx context.Context, formationID int) (string, error) {
	token := uuid.NewString()
	ok, err := r.redis.SetNX(ctx, fleetLockKey(formationID), token, r.fleetLockTTL).Result()
	if err != nil {
		return "", fmt.Errorf("fleet lock: %w", err)
	}
	if !ok {
		return "", ErrFleetBusy
	}
	return token, nil
}

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-taken by another battle is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *Repository) ReleaseFleetLock(ctx context.Context, formationID int, token string) error {
	return releaseScript.Run(ctx, r.redis, []string{fleetLockKey(formationID)}, token).Err()
}

func (r *Repository) IsFirstWinOfDay(ctx context.Context, playerID int, now time.Time) (bool, error) {
	n, err := r.redis.Exists(ctx, firstWinKey(playerID, now)).Result()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *Repository) MarkWinOfDay(ctx context.Context, playerID int, now time.Time) error {
	return r.redis.SetNX(ctx, firstWinKey(playerID, now), 1, firstWinTTL).Err()
}

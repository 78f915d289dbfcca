package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps session and verification state in Redis so every API instance shares it.
type RedisTokenStore struct {
	client *redis.Client
}

var _ TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func userSessionsKey(userID string) string { return "user_sessions:" + userID }
func revokedKey(sessionID string) string    { return "revoked_session:" + sessionID }
func verifyKey(token string) string         { return "verify_email:" + token }

func (r *RedisTokenStore) TrackSession(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	key := userSessionsKey(userID)
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, sessionID)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to track session %s: %w", sessionID, err)
	}
	return nil
}

func (r *RedisTokenStore) Revoke(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, revokedKey(sessionID), userID, ttl)
	pipe.SRem(ctx, userSessionsKey(userID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session %s: %w", sessionID, err)
	}
	return nil
}

func (r *RedisTokenStore) RevokeAll(ctx context.Context, userID string, ttl time.Duration) ([]string, error) {
	key := userSessionsKey(userID)
	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions of %s: %w", userID, err)
	}
	pipe := r.client.TxPipeline()
	for _, sid := range ids {
		pipe.Set(ctx, revokedKey(sid), userID, ttl)
	}
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to revoke sessions of %s: %w", userID, err)
	}
	return ids, nil
}

func (r *RedisTokenStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session %s: %w", sessionID, err)
	}
	return n > 0, nil
}

func (r *RedisTokenStore) SaveVerification(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, verifyKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save verification token: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) ConsumeVerification(ctx context.Context, token string) (string, bool, error) {
	userID, err := r.client.GetDel(ctx, verifyKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read verification token: %w", err)
	}
	return userID, true, nil
}

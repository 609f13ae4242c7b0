package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisTokenRepository keeps one key per token with the token's TTL, plus a
// per-user set used by logout.
type RedisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func tokenKey(key string) string      { return "auth:token:" + key }
func userTokensKey(userID uint) string { return fmt.Sprintf("auth:user:%d:tokens", userID) }

func (r *RedisTokenRepository) CreateToken(ctx context.Context, token *models.AuthToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token %s already expired", token.Key)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token.Key), token.UserID, ttl)
	pipe.SAdd(ctx, userTokensKey(token.UserID), token.Key)
	pipe.Expire(ctx, userTokensKey(token.UserID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisTokenRepository) TokenExists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisTokenRepository) DeleteUserTokens(ctx context.Context, userID uint) error {
	setKey := userTokensKey(userID)
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, tokenKey(k))
	}
	del = append(del, setKey)
	return r.client.Del(ctx, del...).Err()
}

package counter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Проверка соответствия интерфейсу.
var _ Store = (*RedisStore)(nil)

// RedisStore реализует Store поверх Redis (команды INCR и EXPIRE).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает новый экземпляр хранилища счетчиков на Redis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr выполняет команду INCR и возвращает новое значение счетчика.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ошибка выполнения INCR для ключа %q: %w", key, err)
	}
	return val, nil
}

// Expire выполняет команду EXPIRE с относительным TTL.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка выполнения EXPIRE для ключа %q: %w", key, err)
	}
	return nil
}

// Package counter предоставляет абстракцию атомарного счетчика с TTL
// для лимитов запросов. Основная реализация — Redis, in-memory вариант
// используется в тестах и для локальной разработки без Redis.
package counter

import (
	"context"
	"time"
)

// Store определяет методы счетчика: атомарный инкремент и установка TTL.
type Store interface {
	// Incr атомарно увеличивает счетчик по ключу на 1 и возвращает новое значение.
	// Для несуществующего ключа счетчик создается со значением 1.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire устанавливает относительное время жизни ключа.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

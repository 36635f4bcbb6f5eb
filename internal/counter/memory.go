package counter

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// entry хранит значение счетчика и момент его истечения.
// Нулевое expiresAt означает, что TTL еще не установлен.
type entry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore — потокобезопасная in-memory реализация Store.
// Истекшие ключи удаляются лениво при следующем обращении.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	// now вынесено в поле для подмены времени в тестах.
	now func() time.Time
}

// NewMemoryStore создает новое in-memory хранилище счетчиков.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Incr увеличивает счетчик по ключу на 1 и возвращает новое значение.
func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(key)

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// Expire устанавливает относительное время жизни ключа.
// Для несуществующего ключа ничего не делает, как и Redis.
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(key)

	if e, ok := s.entries[key]; ok {
		e.expiresAt = s.now().Add(ttl)
	}
	return nil
}

// evictExpired удаляет ключ, если его TTL истек. Вызывать под мьютексом.
func (s *MemoryStore) evictExpired(key string) {
	if e, ok := s.entries[key]; ok {
		if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

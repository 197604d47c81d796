// Package cache хранит снимки записей школы с меткой времени загрузки.
// Реализации: Redis (общий для нескольких экземпляров сервиса) и Memory (в памяти процесса).
package cache

import "time"

// Cache описывает хранилище значений по ключу с временем жизни.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Entry закэшированное значение и момент его загрузки из источника.
type Entry[T any] struct {
	Value     T         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewEntry создаёт запись, загруженную в момент now.
func NewEntry[T any](value T, now time.Time) Entry[T] {
	return Entry[T]{Value: value, FetchedAt: now}
}

// Stale сообщает, что запись старше ttl и её нужно загрузить заново.
// Неположительный ttl делает любую запись устаревшей.
func (e Entry[T]) Stale(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return now.Sub(e.FetchedAt) >= ttl
}

package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

type idempotencyEntry struct {
	orderID string
	ttlAt   time.Time
}

// idempotencyIndexInMemory — процессный индекс idempotency-key -> order id.
// Записи живут до явного удаления или истечения ttl.
type idempotencyIndexInMemory struct {
	mu    sync.RWMutex
	items map[string]idempotencyEntry
}

// NewIdempotencyIndex создаёт in-memory реализацию IdempotencyIndex.
func NewIdempotencyIndex() domain.IdempotencyIndex {
	return &idempotencyIndexInMemory{
		items: make(map[string]idempotencyEntry),
	}
}

// Put записывает соответствие, перезаписывая устаревшую запись с тем же ключом.
func (x *idempotencyIndexInMemory) Put(key, orderID string, ttlAt time.Time) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrIdempotencyKeyRequired
	}
	if ttlAt.IsZero() {
		ttlAt = time.Now().UTC().Add(24 * time.Hour)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.items[key] = idempotencyEntry{orderID: orderID, ttlAt: ttlAt}
	return nil
}

// Get возвращает order id или ErrIdempotencyKeyNotFound.
// Просроченные записи считаются отсутствующими.
func (x *idempotencyIndexInMemory) Get(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ErrIdempotencyKeyRequired
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	entry, ok := x.items[key]
	if !ok || !entry.ttlAt.After(time.Now().UTC()) {
		return "", domain.ErrIdempotencyKeyNotFound
	}
	return entry.orderID, nil
}

// DeleteByOrder удаляет первую запись, указывающую на заказ.
func (x *idempotencyIndexInMemory) DeleteByOrder(orderID string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for key, entry := range x.items {
		if entry.orderID == orderID {
			delete(x.items, key)
			return true, nil
		}
	}
	return false, nil
}

// DeleteExpired удаляет записи с ttl <= before, не более limit за вызов.
func (x *idempotencyIndexInMemory) DeleteExpired(before time.Time, limit int) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	removed := 0
	for key, entry := range x.items {
		if entry.ttlAt.After(before) {
			continue
		}
		delete(x.items, key)
		removed++
		if limit > 0 && removed >= limit {
			break
		}
	}
	return removed, nil
}

// Len возвращает текущее количество записей.
func (x *idempotencyIndexInMemory) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

var _ domain.IdempotencyIndex = (*idempotencyIndexInMemory)(nil)

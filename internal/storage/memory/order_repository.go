package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository
// для локальной разработки и тестов.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
	// seq разрешает ничьи при одинаковом created_at, чтобы сортировка была стабильной.
	seq map[string]int64
	nxt int64
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
		seq:   make(map[string]int64),
	}
}

// Create сохраняет новый заказ, генерируя ID и временные метки.
func (r *orderRepositoryInMemory) Create(fields domain.NewOrder) (domain.Order, error) {
	now := time.Now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		Item:      fields.Item,
		Price:     fields.Price,
		Status:    fields.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nxt++
	r.seq[order.ID] = r.nxt
	r.items[order.ID] = order
	return order, nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus меняет статус заказа и обновляет updated_at.
func (r *orderRepositoryInMemory) UpdateStatus(id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.items[id] = order
	return nil
}

// Delete удаляет заказ. Удалённый ID больше никогда не появится:
// новые заказы получают свежий uuid.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

// Query возвращает страницу заказов и общее количество совпадений.
func (r *orderRepositoryInMemory) Query(page, size int, search string) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	r.mu.RLock()
	needle := strings.ToLower(search)
	matched := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if needle != "" && !strings.Contains(strings.ToLower(order.Item), needle) {
			continue
		}
		matched = append(matched, order)
	}
	seq := r.seq
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return seq[matched[i].ID] > seq[matched[j].ID]
	})
	r.mu.RUnlock()

	total := len(matched)
	skip := (page - 1) * size
	if skip >= total {
		return []domain.Order{}, total, nil
	}
	end := skip + size
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)

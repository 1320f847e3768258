package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ, генерируя ID и временные метки.
	Create(fields NewOrder) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// UpdateStatus меняет статус заказа и обновляет updated_at.
	// Возвращает ErrOrderNotFound, если заказа нет.
	UpdateStatus(id string, status OrderStatus) error
	// Delete удаляет заказ. Возвращает ErrOrderNotFound, если заказа нет.
	Delete(id string) error
	// Query возвращает страницу заказов и общее количество совпадений.
	// Сортировка: created_at DESC, id DESC. search — регистронезависимый
	// поиск подстроки по полю item; пустая строка означает отсутствие фильтра.
	Query(page, size int, search string) ([]Order, int, error)
}

// IdempotencyIndex хранит соответствие idempotency-key -> order id.
// Индекс живёт в памяти процесса и принадлежит сервису заказов.
type IdempotencyIndex interface {
	// Put записывает соответствие, перезаписывая устаревшую запись с тем же ключом.
	Put(key, orderID string, ttlAt time.Time) error
	// Get возвращает order id или ErrIdempotencyKeyNotFound.
	Get(key string) (string, error)
	// DeleteByOrder удаляет первую запись, указывающую на заказ.
	// Возвращает true, если запись была найдена и удалена.
	DeleteByOrder(orderID string) (bool, error)
	// DeleteExpired удаляет записи с ttl <= before, не более limit за вызов (0 = без лимита).
	DeleteExpired(before time.Time, limit int) (int, error)
	// Len возвращает текущее количество записей.
	Len() int
}

// OrderEventType определяет тип события жизненного цикла заказа.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
	OrderEventDeleted       OrderEventType = "order.deleted"
)

// OrderEvent — событие жизненного цикла заказа для внешних подписчиков.
type OrderEvent struct {
	Type      OrderEventType `json:"type"`
	OrderID   string         `json:"order_id"`
	Item      string         `json:"item"`
	Status    OrderStatus    `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventPublisher публикует события заказов наружу (Kafka, websocket и т.п.).
// Ошибки публикации не должны влиять на результат операции с заказом.
type EventPublisher interface {
	Publish(event OrderEvent) error
}

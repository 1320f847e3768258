package domain

import "errors"

var (
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// Ошибка отсутствующего наименования товара.
	ErrItemRequired = errors.New("item is required")
	// Ошибка некорректной цены (должна быть положительной).
	ErrPriceInvalid = errors.New("price must be greater than zero")
	// Ошибка неподдерживаемого статуса заказа.
	ErrStatusInvalid = errors.New("status must be one of NEW, PAID, CANCELLED")
	// Ошибка пустого idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyKeyNotFound возвращается, если ключ отсутствует в индексе.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

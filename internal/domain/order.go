package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusNew — заказ создан, ещё не оплачен.
	OrderStatusNew OrderStatus = "NEW"
	// OrderStatusPaid — оплата подтверждена.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
// Переходы между статусами не ограничены: любой статус можно сменить на любой.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order — единственная доменная сущность: позиция заказа с ценой и статусом.
type Order struct {
	ID        string      `json:"id"`
	Item      string      `json:"item"`
	Price     string      `json:"price"` // NUMERIC(10,2) -> string, всегда два знака
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewOrder — поля, которые попадают в хранилище при создании заказа.
// ID и временные метки генерирует само хранилище.
type NewOrder struct {
	Item   string
	Price  string
	Status OrderStatus
}

// CanonicalPrice приводит цену к каноническому виду с ровно двумя
// десятичными знаками независимо от точности входного числа.
func CanonicalPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

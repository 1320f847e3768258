//go:build tools

// Пакет tools предназначен для фиксации зависимостей инструментов.
// Генератор swagger-документации устанавливается вручную:
//
//	go install github.com/swaggo/swag/cmd/swag@latest
//
// после чего документация обновляется командой
//
//	swag init -g cmd/orders-api/main.go -o docs
package tools

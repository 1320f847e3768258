package app

import (
	"errors"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// fanoutPublisher рассылает событие всем подключённым издателям.
// Ошибка одного издателя не мешает остальным.
type fanoutPublisher struct {
	publishers []domain.EventPublisher
}

// newFanoutPublisher собирает издателей, отбрасывая nil.
// Возвращает nil, если издателей нет.
func newFanoutPublisher(publishers ...domain.EventPublisher) domain.EventPublisher {
	var active []domain.EventPublisher
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	default:
		return &fanoutPublisher{publishers: active}
	}
}

func (f *fanoutPublisher) Publish(event domain.OrderEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

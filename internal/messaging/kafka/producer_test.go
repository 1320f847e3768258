package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

func testEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.OrderEventCreated,
		OrderID:   "order-123",
		Item:      "Matcha Latte",
		Status:    domain.OrderStatusNew,
		Timestamp: time.Now().UTC(),
	}
}

func TestProducer_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event domain.OrderEvent
		return json.Unmarshal(value, &event)
	})

	if err := producer.Publish(testEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.Publish(testEvent()); err == nil {
		t.Fatal("expected send error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

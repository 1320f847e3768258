package orders

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/metrics"
)

const (
	// defaultPageSize — канонический размер страницы сервисного уровня,
	// когда вызывающая сторона его не задала.
	defaultPageSize = 10

	// defaultIdempotencyTTL ограничивает время жизни записи индекса,
	// чтобы процессная map не росла бесконечно.
	defaultIdempotencyTTL = 24 * time.Hour
)

// CreateInput — входные данные создания заказа. Валидация формы полей
// выполняется на транспортном уровне до вызова сервиса.
type CreateInput struct {
	Item   string
	Price  float64
	Status domain.OrderStatus
}

// ListResult — страница заказов и общее количество совпадений.
type ListResult struct {
	Data  []domain.Order `json:"data"`
	Total int            `json:"total"`
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics подключает метрики операций с заказами.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEvents подключает публикацию событий жизненного цикла заказов.
func WithEvents(p domain.EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithIdempotencyTTL задаёт время жизни записей idempotency-индекса.
func WithIdempotencyTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idemTTL = ttl
		}
	}
}

// Service — ядро приложения: все мутации и чтения заказов проходят через
// него. Сервис владеет idempotency-индексом и поддерживает его
// согласованность с удалениями.
type Service struct {
	repo    domain.OrderRepository
	idem    domain.IdempotencyIndex
	events  domain.EventPublisher
	metrics *metrics.OrderMetrics
	logger  *log.Entry
	idemTTL time.Duration
	keys    keyLocks
}

// NewService конструирует сервис заказов.
func NewService(repo domain.OrderRepository, idem domain.IdempotencyIndex, options ...Option) *Service {
	s := &Service{
		repo:    repo,
		idem:    idem,
		idemTTL: defaultIdempotencyTTL,
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "order-service")
	}
	return s
}

// List возвращает страницу заказов. page по умолчанию 1, size по
// умолчанию defaultPageSize; query — необязательный поиск подстроки по item.
func (s *Service) List(page, size int, query string) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}

	data, total, err := s.repo.Query(page, size, query)
	if err != nil {
		return ListResult{}, fmt.Errorf("query orders: %w", err)
	}
	return ListResult{Data: data, Total: total}, nil
}

// Create создаёт заказ. Если передан idempotencyKey и заказ, созданный
// по этому ключу, ещё существует — возвращается он, без новой записи в
// хранилище. Протухшая запись индекса (заказ удалён) не ошибка:
// создаётся новый заказ, и ключ перепривязывается к нему.
//
// Последовательность lookup -> create -> put защищена мьютексом по ключу,
// поэтому конкурирующие Create с одним и тем же ключом не создадут два заказа.
func (s *Service) Create(input CreateInput, idempotencyKey string) (domain.Order, error) {
	status := input.Status
	if status == "" {
		status = domain.OrderStatusNew
	}
	if !status.Valid() {
		return domain.Order{}, domain.ErrStatusInvalid
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" {
		unlock := s.keys.lock(key)
		defer unlock()

		if orderID, err := s.idem.Get(key); err == nil {
			existing, err := s.repo.Get(orderID)
			if err == nil {
				s.metrics.IdempotencyHit()
				s.logger.WithFields(log.Fields{
					"order_id": existing.ID,
				}).Debug("idempotency hit: returning existing order")
				return existing, nil
			}
			if !errors.Is(err, domain.ErrOrderNotFound) {
				return domain.Order{}, fmt.Errorf("lookup cached order: %w", err)
			}
			// Заказ удалили после записи в индекс: создаём заново.
			s.metrics.IdempotencyStale()
		}
	}

	order, err := s.repo.Create(domain.NewOrder{
		Item:   input.Item,
		Price:  domain.CanonicalPrice(input.Price),
		Status: status,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if key != "" {
		if err := s.idem.Put(key, order.ID, time.Now().UTC().Add(s.idemTTL)); err != nil {
			s.logger.WithError(err).Warn("failed to record idempotency key")
		}
		s.metrics.SetIndexSize(s.idem.Len())
	}

	s.metrics.OrderCreated()
	s.publish(domain.OrderEventCreated, order)
	return order, nil
}

// FindOne возвращает заказ по идентификатору; ErrOrderNotFound пробрасывается.
func (s *Service) FindOne(id string) (domain.Order, error) {
	return s.repo.Get(id)
}

// UpdateStatus применяет новый статус и возвращает обновлённый заказ.
// Допустимость перехода не проверяется: любой статус можно сменить на любой.
func (s *Service) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrStatusInvalid
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	s.metrics.StatusChanged(string(status))
	s.publish(domain.OrderEventStatusChanged, order)
	return order, nil
}

// Delete удаляет заказ и возвращает его последнее состояние.
// Запись idempotency-индекса, указывающая на заказ, вычищается до
// обращения к хранилищу: даже неудачное удаление оставляет индекс чистым.
func (s *Service) Delete(id string) (domain.Order, error) {
	if removed, err := s.idem.DeleteByOrder(id); err != nil {
		s.logger.WithError(err).Warn("failed to purge idempotency entry")
	} else if removed {
		s.metrics.SetIndexSize(s.idem.Len())
	}

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Delete(id); err != nil {
		return domain.Order{}, err
	}

	s.metrics.OrderDeleted()
	s.publish(domain.OrderEventDeleted, order)
	return order, nil
}

// publish отправляет событие подписчикам. Ошибка публикации логируется
// и никогда не влияет на результат операции.
func (s *Service) publish(eventType domain.OrderEventType, order domain.Order) {
	if s.events == nil {
		return
	}
	event := domain.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		Item:      order.Item,
		Status:    order.Status,
		Timestamp: time.Now().UTC(),
	}
	if err := s.events.Publish(event); err != nil {
		s.logger.WithError(err).WithField("event", string(eventType)).Warn("failed to publish order event")
	}
}

// keyLocks выдаёт мьютекс на idempotency-key. Записи освобождаются,
// когда последний владелец отпускает ключ.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*keyLock)
	}
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

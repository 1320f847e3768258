// Package app собирает зависимости сервиса заказов и управляет его жизненным циклом.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/health"
	"github.com/vladislavdragonenkov/orders-api/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orders-api/internal/metrics"
	"github.com/vladislavdragonenkov/orders-api/internal/service/idempotency"
	"github.com/vladislavdragonenkov/orders-api/internal/service/orders"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/postgres"
	"github.com/vladislavdragonenkov/orders-api/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/orders-api/internal/transport/ws"
	"github.com/vladislavdragonenkov/orders-api/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run запускает сервис и блокируется до отмены контекста или фатальной ошибки.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := health.NewHandler(version.GetVersion())

	// Хранилище заказов: Postgres при наличии DSN, иначе in-memory.
	var (
		repo  domain.OrderRepository
		store *postgres.Store
	)
	if cfg.DatabaseURL != "" {
		st, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := st.MigrateUp(ctx, 0); err != nil {
			_ = st.Close()
			return err
		}
		store = st
		repo = postgres.NewOrderRepository(st)
		healthHandler.Register("postgres", health.PingCheck(st))
		logger.Info("используем postgres-хранилище")
	} else {
		repo = memory.NewOrderRepository()
		logger.Info("DATABASE_URL не задан, используем in-memory хранилище")
	}
	defer func() {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("ошибка при закрытии подключения к postgres")
			}
		}
	}()

	// Кэш идемпотентности живёт в памяти процесса.
	idx := memory.NewIdempotencyIndex()

	// Kafka producer опционален: без брокеров события просто не публикуются наружу.
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("kafka недоступна, продолжаем без неё")
		} else {
			producer = p
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer инициализирован")
		}
	}
	defer func() {
		if producer != nil {
			if err := producer.Close(); err != nil {
				logger.WithError(err).Warn("ошибка при закрытии kafka producer")
			}
		}
	}()

	// WebSocket-hub транслирует события заказов живым подписчикам.
	hub := ws.NewHub(logger.WithField("component", "ws"))
	go hub.Run(ctx)
	wsHandler := ws.NewHandler(hub, logger.WithField("component", "ws"))

	var events domain.EventPublisher
	if producer != nil {
		events = newFanoutPublisher(producer, hub)
	} else {
		events = newFanoutPublisher(hub)
	}

	orderMetrics := metrics.NewOrderMetrics()

	svc := orders.NewService(repo, idx,
		orders.WithLogger(logger.WithField("component", "orders")),
		orders.WithMetrics(orderMetrics),
		orders.WithEvents(events),
		orders.WithIdempotencyTTL(cfg.IdempotencyTTL),
	)

	sweeper := idempotency.NewSweeper(idx,
		idempotency.WithLogger(logger.WithField("component", "idempotency")),
		idempotency.WithInterval(cfg.SweepInterval),
	)
	go sweeper.Run(ctx)

	router := httpapi.NewRouter(svc, wsHandler,
		httpapi.RouterConfig{CORSOrigin: cfg.CORSOrigin},
		logger.WithField("component", "http"))

	opsSrv := startOpsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("REST API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer поднимает служебный HTTP-сервер с метриками и health-пробами.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *health.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("служебный сервер завершился с ошибкой")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("shutdown завершился с ошибкой")
	}
}

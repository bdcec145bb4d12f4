package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecom/internal/config"
	"github.com/vladislavdragonenkov/ecom/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/ecom/internal/health"
	"github.com/vladislavdragonenkov/ecom/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ecom/internal/metrics"
	"github.com/vladislavdragonenkov/ecom/internal/storage/memory"
	"github.com/vladislavdragonenkov/ecom/internal/storage/postgres"
	"github.com/vladislavdragonenkov/ecom/internal/version"
)

// Run собирает зависимости и запускает консольное приложение.
func Run(ctx context.Context, cfg config.Config) error {
	logger := log.WithField("component", "app")

	repoMetrics := metrics.NewRepoMetrics()
	healthHandler := healthcheck.NewHandler(version.String())

	var repo domain.OrderRepository
	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres store: %w", err)
		}
		defer func() {
			_ = store.Close()
		}()

		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		repo = postgres.NewOrderRepository(store)
		healthHandler.RegisterChecker("postgres", healthcheck.PingChecker{
			Name: "postgres",
			Ping: store.Ping,
		})
		logger.Info("postgres storage initialized")
	} else {
		repo = memory.NewOrderRepository()
		logger.Warn("ECOM_POSTGRES_DSN is not set, using in-memory storage")
	}
	repo = metrics.InstrumentRepository(repo, repoMetrics)

	// Kafka опциональна: без брокеров события заказов просто не публикуются.
	var publisher OrderEventPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			defer func() {
				if err := producer.Close(); err != nil {
					logger.WithError(err).Warn("failed to close kafka producer")
				}
			}()
			publisher = producer
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}

	metricsSrv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)
	defer shutdownHTTP(metricsSrv, logger)

	console := NewConsole(repo, publisher, os.Stdin, os.Stdout)
	return console.Run(ctx)
}

// startMetricsServer запускает HTTP-обработчики /metrics и /healthz.
func startMetricsServer(addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	return srv
}

func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("metrics server shutdown failed")
	}
}

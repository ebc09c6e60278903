package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/api"
	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/config"
	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/tx-ledger/internal/logging"
	"github.com/carson-networks/tx-ledger/internal/metrics"
	"github.com/carson-networks/tx-ledger/internal/operator"
	"github.com/carson-networks/tx-ledger/internal/service"
	"github.com/carson-networks/tx-ledger/internal/storage"
	"github.com/carson-networks/tx-ledger/internal/storage/memory"
	"github.com/carson-networks/tx-ledger/internal/storage/sqlconfig"
)

const tokenTTL = 24 * time.Hour

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("tx-ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, envConfig)
	if err != nil {
		logger.WithError(err).Fatal("openStorage")
		return
	}
	defer store.Close()

	publisher := openPublisher(envConfig, logger)
	defer publisher.Close()

	tracker := openTracker(ctx, envConfig, logger)

	admins, err := auth.NewAdminRegistry(envConfig.Admin)
	if err != nil {
		logger.WithError(err).Fatal("auth.NewAdminRegistry")
		return
	}

	authority, err := auth.NewTokenAuthority(envConfig.JWTSecret, tokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("auth.NewTokenAuthority")
		return
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	delegator := operator.NewOperatorDelegator(store, publisher, m, logger, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(store, delegator, admins, tracker, logger)
	if err := svc.Bootstrap(ctx); err != nil {
		logger.WithError(err).Fatal("service.Bootstrap")
		return
	}

	probes := map[string]status.Probe{"storage": store.Ping}
	if p, ok := publisher.(*audit.JetStreamPublisher); ok {
		probes["events"] = p.Ping
	}
	if t, ok := tracker.(*counter.RedisTracker); ok {
		probes["interactions"] = t.Ping
		defer t.Close()
	}

	httpRest := api.Rest{
		Logger:    logger,
		Port:      envConfig.Port,
		Service:   svc,
		Metrics:   m,
		Registry:  registry,
		Authority: authority,
		Probes:    probes,
	}
	httpRest.Serve(ctx)
}

func openStorage(ctx context.Context, envConfig *config.Config) (*storage.Storage, error) {
	if envConfig.StorageBackend == config.StorageBackendMemory {
		return memory.New().Storage(), nil
	}

	db, err := sqlconfig.Open(ctx, envConfig.PostgresDSN())
	if err != nil {
		return nil, err
	}
	return sqlconfig.NewStorage(db), nil
}

func openPublisher(envConfig *config.Config, logger *logrus.Logger) audit.Publisher {
	if envConfig.NATSURL == "" {
		return &audit.LogPublisher{Logger: logger}
	}

	publisher, err := audit.NewJetStreamPublisher(envConfig.NATSURL, logger)
	if err != nil {
		logger.WithError(err).Warn("audit.NewJetStreamPublisher failed, events will only be logged")
		return &audit.LogPublisher{Logger: logger}
	}
	return publisher
}

func openTracker(ctx context.Context, envConfig *config.Config, logger *logrus.Logger) counter.Tracker {
	if envConfig.RedisAddress == "" {
		return counter.NewMemoryTracker()
	}

	tracker, err := counter.NewRedisTracker(ctx, envConfig.RedisAddress, envConfig.RedisPassword, envConfig.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("counter.NewRedisTracker failed, using in-process counters")
		return counter.NewMemoryTracker()
	}
	return tracker
}

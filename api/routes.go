package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/audit"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/info"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/interaction"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/preference"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/tx-ledger/internal/logging"
	"github.com/carson-networks/tx-ledger/internal/metrics"
	"github.com/carson-networks/tx-ledger/internal/service"
)

type Rest struct {
	Logger    *logrus.Logger
	Port      string
	Service   *service.Service
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
	Authority *auth.TokenAuthority
	// Probes are reported by /status.
	Probes map[string]status.Probe
}

// Handler builds the full HTTP surface: the huma API under /v1 plus the
// plain /status and /metrics endpoints.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	api := humago.New(mux, huma.DefaultConfig("Transaction Ledger", service.LedgerVersion))
	api.UseMiddleware(
		logging.Middleware(r.Logger),
		metrics.Middleware(r.Metrics),
		auth.Middleware(api, r.Authority),
	)

	transaction.NewRecordTransactionHandler(r.Service.Ledger).Register(api)
	transaction.NewUpdateStatusHandler(r.Service.Ledger).Register(api)
	transaction.NewGetTransactionHandler(r.Service.Ledger).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Ledger).Register(api)
	preference.NewHandler(r.Service.Preferences).Register(api)
	audit.NewHandler(r.Service.Audit).Register(api)
	info.NewHandler(r.Service.Ledger).Register(api)
	interaction.NewHandler(r.Service.Interactions).Register(api)

	statusHandler := status.NewHandler(r.Probes)
	mux.Handle("/status", metrics.HTTPMetricsMiddleware(r.Metrics, "Status")(
		logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler)))

	if r.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{}))
	}

	return mux
}

// Serve listens until ctx is cancelled, then shuts the server down.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

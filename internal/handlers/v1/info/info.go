package info

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/service"
)

type ledgerService interface {
	Info() service.LedgerInfo
	TransactionCount(ctx context.Context) (uint64, error)
}

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Admin   string `json:"admin" doc:"Administrator identity"`
}

type InfoOutput struct {
	Body InfoResponse
}

type StatsResponse struct {
	TransactionCount uint64 `json:"transactionCount" doc:"Number of transactions ever recorded"`
}

type StatsOutput struct {
	Body StatsResponse
}

// Handler serves static ledger metadata and global statistics.
type Handler struct {
	Service ledgerService
}

func NewHandler(svc ledgerService) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-ledger-info",
		Method:      http.MethodGet,
		Path:        "/v1/ledger/info",
		Summary:     "Ledger metadata",
		Tags:        []string{"Ledger"},
	}, h.info)

	huma.Register(api, huma.Operation{
		OperationID: "get-ledger-stats",
		Method:      http.MethodGet,
		Path:        "/v1/ledger/stats",
		Summary:     "Ledger statistics",
		Tags:        []string{"Ledger"},
	}, h.stats)
}

func (h *Handler) info(_ context.Context, _ *struct{}) (*InfoOutput, error) {
	info := h.Service.Info()
	return &InfoOutput{Body: InfoResponse{
		Name:    info.Name,
		Version: info.Version,
		Admin:   info.Admin.String(),
	}}, nil
}

func (h *Handler) stats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	count, err := h.Service.TransactionCount(ctx)
	if err != nil {
		return nil, apierror.From(ctx, "failed to read transaction count", err)
	}
	return &StatsOutput{Body: StatsResponse{TransactionCount: count}}, nil
}

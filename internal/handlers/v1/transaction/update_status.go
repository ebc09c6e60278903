package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type UpdateStatusBody struct {
	Status string `json:"status" required:"true" doc:"pending, completed, failed or cancelled"`
}

type UpdateStatusInput struct {
	ID   string `path:"id" doc:"Transaction id"`
	Body UpdateStatusBody
}

type UpdateStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type UpdateStatusOutput struct {
	Body UpdateStatusResponse
}

type statusUpdater interface {
	UpdateTransactionStatus(ctx context.Context, caller ledger.Identity, id ledger.TransactionID, status ledger.Status) error
}

// UpdateStatusHandler handles PUT /v1/transaction/{id}/status.
type UpdateStatusHandler struct {
	Service statusUpdater
}

func NewUpdateStatusHandler(svc statusUpdater) *UpdateStatusHandler {
	return &UpdateStatusHandler{Service: svc}
}

func (h *UpdateStatusHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction-status",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}/status",
		Summary:     "Update transaction status",
		Description: "Sets the status of a transaction. Allowed for its owner and the administrator.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateStatusHandler) handle(ctx context.Context, input *UpdateStatusInput) (*UpdateStatusOutput, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return nil, apierror.From(ctx, "caller identity required", err)
	}

	id, err := ledger.ParseTransactionID(input.ID)
	if err != nil {
		return nil, apierror.From(ctx, "invalid transaction id", err)
	}

	// Unknown names become unspecified and are rejected by the ledger.
	status, _ := ledger.ParseStatus(input.Body.Status)

	if err = h.Service.UpdateTransactionStatus(ctx, caller, id, status); err != nil {
		return nil, apierror.From(ctx, "failed to update transaction status", err)
	}

	return &UpdateStatusOutput{Body: UpdateStatusResponse{ID: id.String(), Status: status.String()}}, nil
}

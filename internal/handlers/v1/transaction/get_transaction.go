package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type GetTransactionInput struct {
	ID string `path:"id" doc:"Transaction id"`
}

type GetTransactionOutput struct {
	Body Transaction
}

type transactionGetter interface {
	GetTransactionDetails(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{id}.
type GetTransactionHandler struct {
	Service transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{Service: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *GetTransactionInput) (*GetTransactionOutput, error) {
	id, err := ledger.ParseTransactionID(input.ID)
	if err != nil {
		return nil, apierror.From(ctx, "invalid transaction id", err)
	}

	tx, err := h.Service.GetTransactionDetails(ctx, id)
	if err != nil {
		return nil, apierror.From(ctx, "failed to get transaction", err)
	}

	return &GetTransactionOutput{Body: toTransaction(tx)}, nil
}

package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/logging"
	"github.com/carson-networks/tx-ledger/internal/service"
)

// ListTransactionsInput selects one page of a user's history.
type ListTransactionsInput struct {
	User     string `path:"user" doc:"User identity"`
	Page     int    `query:"page" minimum:"0" default:"0" doc:"0-based page; pages past the end return the first page"`
	PageSize int    `query:"pageSize" minimum:"1" maximum:"100" default:"10" doc:"Items per page"`
	Type     string `query:"type" doc:"Only include this transaction type"`
	Status   string `query:"status" doc:"Only include this status"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Matching transactions inside the page window, oldest first"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
}

type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	GetTransactionHistory(ctx context.Context, query service.HistoryQuery) ([]*ledger.Transaction, error)
}

// ListTransactionsHandler handles GET /v1/users/{user}/transactions.
type ListTransactionsHandler struct {
	Service transactionLister
}

func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{Service: svc}
}

func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/users/{user}/transactions",
		Summary:     "List a user's transactions",
		Description: "Returns one page of the user's transactions in the order they were recorded, optionally filtered by type and status. Filters never pull in items from outside the page.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
func parseListTransactionsInput(input *ListTransactionsInput) (service.HistoryQuery, error) {
	user, err := ledger.ParseIdentity(input.User)
	if err != nil {
		return service.HistoryQuery{}, err
	}
	txType, err := parseTypeFilter(input.Type)
	if err != nil {
		return service.HistoryQuery{}, err
	}
	status, err := parseStatusFilter(input.Status)
	if err != nil {
		return service.HistoryQuery{}, err
	}

	return service.HistoryQuery{
		User:     user,
		Page:     input.Page,
		PageSize: input.PageSize,
		Type:     txType,
		Status:   status,
	}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	query, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, apierror.From(ctx, "invalid history query", err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, err := h.Service.GetTransactionHistory(ctx, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.From(ctx, "failed to list transactions", err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	for i, tx := range transactions {
		resp.Transactions[i] = toTransaction(tx)
	}

	return &ListTransactionsOutput{Body: resp}, nil
}

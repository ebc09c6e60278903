package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/logging"
	"github.com/carson-networks/tx-ledger/internal/service"
)

// RecordTransactionBody is the request body for recording a transaction.
type RecordTransactionBody struct {
	ID          string `json:"id" required:"true" minLength:"1" doc:"Caller-assigned transaction id, hex (0x...) or decimal"`
	Type        string `json:"type" required:"true" doc:"deposit, withdrawal, swap, transfer or other"`
	Amount      string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Description string `json:"description,omitempty" maxLength:"31" doc:"Short annotation"`
}

// RecordTransactionInput is the Huma input for recording a transaction.
type RecordTransactionInput struct {
	Body RecordTransactionBody
}

// RecordTransactionResponse is the response body for a recorded transaction.
type RecordTransactionResponse struct {
	ID     string `json:"id" doc:"Transaction id"`
	Status string `json:"status" doc:"Initial status, always pending"`
}

// RecordTransactionOutput is the Huma output for recording a transaction.
type RecordTransactionOutput struct {
	Status int
	Body   RecordTransactionResponse
}

type transactionRecorder interface {
	RecordTransaction(ctx context.Context, caller ledger.Identity, tx service.NewTransaction) error
}

// RecordTransactionHandler handles POST /v1/transaction.
type RecordTransactionHandler struct {
	Service transactionRecorder
}

func NewRecordTransactionHandler(svc transactionRecorder) *RecordTransactionHandler {
	return &RecordTransactionHandler{Service: svc}
}

// Register registers the record transaction endpoint with the Huma API.
func (h *RecordTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "record-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Record transaction",
		Description:   "Records a new Pending transaction owned by the caller.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseRecordTransactionInput parses the API input. An unknown type is
// passed through as unspecified and an unparsable amount as zero, so the
// ledger reports them in order.
func parseRecordTransactionInput(input *RecordTransactionInput) (service.NewTransaction, error) {
	id, err := ledger.ParseTransactionID(input.Body.ID)
	if err != nil {
		return service.NewTransaction{}, err
	}

	txType, _ := ledger.ParseTransactionType(input.Body.Type)

	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		amount = decimal.Zero
	}

	return service.NewTransaction{
		ID:          id,
		Type:        txType,
		Amount:      amount,
		Description: input.Body.Description,
	}, nil
}

func (h *RecordTransactionHandler) handle(ctx context.Context, input *RecordTransactionInput) (*RecordTransactionOutput, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return nil, apierror.From(ctx, "caller identity required", err)
	}

	tx, err := parseRecordTransactionInput(input)
	if err != nil {
		return nil, apierror.From(ctx, "invalid transaction", err)
	}

	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("transactionID", tx.ID.String())
		defer logData.AddTiming("recordTransactionMs")()
	}

	if err = h.Service.RecordTransaction(ctx, caller, tx); err != nil {
		return nil, apierror.From(ctx, "failed to record transaction", err)
	}

	return &RecordTransactionOutput{
		Status: http.StatusCreated,
		Body: RecordTransactionResponse{
			ID:     tx.ID.String(),
			Status: ledger.StatusPending.String(),
		},
	}, nil
}

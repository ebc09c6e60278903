package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	ledgeraudit "github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
)

type eventLister interface {
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*ledgeraudit.Event, error)
}

type ListEventsInput struct {
	After int64 `query:"after" minimum:"0" default:"0" doc:"Return events with a sequence number above this one"`
	Limit int   `query:"limit" minimum:"1" maximum:"1000" default:"100" doc:"Maximum number of events"`
}

// Event is the API model of an audit event.
type Event struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Subject   string `json:"subject" doc:"Event bus subject the event is published on"`
	Payload   any    `json:"payload"`
	CreatedAt string `json:"createdAt"`
}

type ListEventsResponseBody struct {
	Events []Event `json:"events"`
	// Next is the value of after for the following call.
	Next int64 `json:"next"`
}

type ListEventsOutput struct {
	Body ListEventsResponseBody
}

// Handler handles GET /v1/audit.
type Handler struct {
	Service eventLister
}

func NewHandler(svc eventLister) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-events",
		Method:      http.MethodGet,
		Path:        "/v1/audit",
		Summary:     "Replay audit events",
		Description: "Returns committed audit events in order, starting after the given sequence number.",
		Tags:        []string{"Audit"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	events, err := h.Service.ListEvents(ctx, input.After, input.Limit)
	if err != nil {
		return nil, apierror.From(ctx, "failed to list audit events", err)
	}

	resp := ListEventsResponseBody{
		Events: make([]Event, len(events)),
		Next:   input.After,
	}
	for i, e := range events {
		resp.Events[i] = Event{
			Seq:       e.Seq,
			ID:        e.ID.String(),
			Kind:      string(e.Kind),
			Subject:   ledgeraudit.Subject(e),
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		}
		resp.Next = e.Seq
	}

	return &ListEventsOutput{Body: resp}, nil
}

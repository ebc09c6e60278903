package interaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type interactionService interface {
	TrackInteraction(ctx context.Context, user ledger.Identity, action string) (uint64, error)
	GetUserActionCount(ctx context.Context, user ledger.Identity, action string) (uint64, error)
}

type TrackBody struct {
	Action string `json:"action" required:"true" minLength:"1" maxLength:"64" doc:"Action identifier"`
}

type TrackInput struct {
	Body TrackBody
}

type CountInput struct {
	User   string `path:"user" doc:"User identity"`
	Action string `path:"action" doc:"Action identifier"`
}

type CountResponse struct {
	User   string `json:"user"`
	Action string `json:"action"`
	Count  uint64 `json:"count"`
}

type CountOutput struct {
	Body CountResponse
}

// Handler serves the interaction counter.
type Handler struct {
	Service interactionService
}

func NewHandler(svc interactionService) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "track-interaction",
		Method:      http.MethodPost,
		Path:        "/v1/interactions",
		Summary:     "Count an interaction of the caller",
		Tags:        []string{"Interactions"},
	}, h.track)

	huma.Register(api, huma.Operation{
		OperationID: "get-interaction-count",
		Method:      http.MethodGet,
		Path:        "/v1/interactions/{user}/{action}",
		Summary:     "Read an interaction count",
		Tags:        []string{"Interactions"},
	}, h.count)
}

func (h *Handler) track(ctx context.Context, input *TrackInput) (*CountOutput, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return nil, apierror.From(ctx, "caller identity required", err)
	}

	count, err := h.Service.TrackInteraction(ctx, caller, input.Body.Action)
	if err != nil {
		return nil, apierror.From(ctx, "failed to track interaction", err)
	}
	return &CountOutput{Body: CountResponse{User: caller.String(), Action: input.Body.Action, Count: count}}, nil
}

func (h *Handler) count(ctx context.Context, input *CountInput) (*CountOutput, error) {
	user, err := ledger.ParseIdentity(input.User)
	if err != nil {
		return nil, apierror.From(ctx, "invalid user", err)
	}

	count, err := h.Service.GetUserActionCount(ctx, user, input.Action)
	if err != nil {
		return nil, apierror.From(ctx, "failed to read interaction count", err)
	}
	return &CountOutput{Body: CountResponse{User: user.String(), Action: input.Action, Count: count}}, nil
}

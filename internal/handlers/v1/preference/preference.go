package preference

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type preferenceService interface {
	SetNotificationPreferences(ctx context.Context, caller ledger.Identity, categories []ledger.Category, enabled bool) error
	GetNotificationPreferences(ctx context.Context, user ledger.Identity) ([]ledger.Category, error)
}

type SetPreferencesBody struct {
	Categories []string `json:"categories" required:"true" doc:"all, deposits, withdrawals or status_changes"`
	Enabled    bool     `json:"enabled" doc:"New value for every listed category"`
}

type SetPreferencesInput struct {
	Body SetPreferencesBody
}

type PreferencesResponse struct {
	User       string   `json:"user"`
	Categories []string `json:"categories" doc:"Enabled categories in fixed order"`
}

type PreferencesOutput struct {
	Body PreferencesResponse
}

type GetPreferencesInput struct {
	User string `path:"user" doc:"User identity"`
}

// Handler serves the notification preference endpoints.
type Handler struct {
	Service preferenceService
}

func NewHandler(svc preferenceService) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "set-notification-preferences",
		Method:      http.MethodPut,
		Path:        "/v1/preferences",
		Summary:     "Set notification preferences",
		Description: "Sets every listed category of the caller. One unknown category rejects the whole request.",
		Tags:        []string{"Preferences"},
	}, h.set)

	huma.Register(api, huma.Operation{
		OperationID: "get-notification-preferences",
		Method:      http.MethodGet,
		Path:        "/v1/users/{user}/preferences",
		Summary:     "Get notification preferences",
		Tags:        []string{"Preferences"},
	}, h.get)
}

// parseCategories maps names to categories. Unknown names become
// unspecified so the whole batch is rejected by the ledger.
func parseCategories(names []string) []ledger.Category {
	categories := make([]ledger.Category, len(names))
	for i, name := range names {
		categories[i], _ = ledger.ParseCategory(name)
	}
	return categories
}

func (h *Handler) set(ctx context.Context, input *SetPreferencesInput) (*PreferencesOutput, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return nil, apierror.From(ctx, "caller identity required", err)
	}

	err = h.Service.SetNotificationPreferences(ctx, caller, parseCategories(input.Body.Categories), input.Body.Enabled)
	if err != nil {
		return nil, apierror.From(ctx, "failed to set notification preferences", err)
	}

	return h.respond(ctx, caller)
}

func (h *Handler) get(ctx context.Context, input *GetPreferencesInput) (*PreferencesOutput, error) {
	user, err := ledger.ParseIdentity(input.User)
	if err != nil {
		return nil, apierror.From(ctx, "invalid user", err)
	}
	return h.respond(ctx, user)
}

func (h *Handler) respond(ctx context.Context, user ledger.Identity) (*PreferencesOutput, error) {
	categories, err := h.Service.GetNotificationPreferences(ctx, user)
	if err != nil {
		return nil, apierror.From(ctx, "failed to get notification preferences", err)
	}

	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.String()
	}
	return &PreferencesOutput{Body: PreferencesResponse{User: user.String(), Categories: names}}, nil
}

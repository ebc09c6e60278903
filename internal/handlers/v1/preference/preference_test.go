package preference

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

var caller = ledger.MustParseIdentity("0xB0B")

type mockPreferenceService struct {
	mock.Mock
}

func (m *mockPreferenceService) SetNotificationPreferences(ctx context.Context, caller ledger.Identity, categories []ledger.Category, enabled bool) error {
	args := m.Called(ctx, caller, categories, enabled)
	return args.Error(0)
}

func (m *mockPreferenceService) GetNotificationPreferences(ctx context.Context, user ledger.Identity) ([]ledger.Category, error) {
	args := m.Called(ctx, user)
	categories, _ := args.Get(0).([]ledger.Category)
	return categories, args.Error(1)
}

func newTestAPI(t *testing.T, svc preferenceService, identity ledger.Identity) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	if !identity.IsZero() {
		api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			next(huma.WithContext(ctx, auth.WithCaller(ctx.Context(), identity)))
		})
	}
	NewHandler(svc).Register(api)
	return api
}

func TestParseCategories(t *testing.T) {
	assert.Equal(t,
		[]ledger.Category{ledger.CategoryDeposits, ledger.CategoryUnspecified, ledger.CategoryAll},
		parseCategories([]string{"deposits", "spam", "ALL"}))
}

func TestHTTP_SetPreferences_Success(t *testing.T) {
	mockSvc := new(mockPreferenceService)
	mockSvc.On("SetNotificationPreferences", mock.Anything, caller, []ledger.Category{ledger.CategoryDeposits}, true).Return(nil)
	mockSvc.On("GetNotificationPreferences", mock.Anything, caller).Return([]ledger.Category{ledger.CategoryDeposits}, nil)

	resp := newTestAPI(t, mockSvc, caller).Put("/v1/preferences", SetPreferencesBody{
		Categories: []string{"deposits"},
		Enabled:    true,
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body PreferencesResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"deposits"}, body.Categories)
	assert.Equal(t, caller.String(), body.User)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_SetPreferences_InvalidCategory(t *testing.T) {
	mockSvc := new(mockPreferenceService)
	mockSvc.On("SetNotificationPreferences", mock.Anything, caller,
		[]ledger.Category{ledger.CategoryDeposits, ledger.CategoryUnspecified}, true).Return(ledger.ErrInvalidCategory)

	resp := newTestAPI(t, mockSvc, caller).Put("/v1/preferences", SetPreferencesBody{
		Categories: []string{"deposits", "spam"},
		Enabled:    true,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "GetNotificationPreferences", mock.Anything, mock.Anything)
}

func TestHTTP_SetPreferences_Anonymous(t *testing.T) {
	mockSvc := new(mockPreferenceService)

	resp := newTestAPI(t, mockSvc, "").Put("/v1/preferences", SetPreferencesBody{Categories: []string{"all"}})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockSvc.AssertNotCalled(t, "SetNotificationPreferences")
}

func TestHTTP_GetPreferences(t *testing.T) {
	mockSvc := new(mockPreferenceService)
	mockSvc.On("GetNotificationPreferences", mock.Anything, ledger.Identity("0xa")).
		Return([]ledger.Category{ledger.CategoryAll, ledger.CategoryStatusChanges}, nil)

	resp := newTestAPI(t, mockSvc, "").Get("/v1/users/0xA/preferences")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body PreferencesResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"all", "status_changes"}, body.Categories)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetPreferences_MalformedUser(t *testing.T) {
	mockSvc := new(mockPreferenceService)

	resp := newTestAPI(t, mockSvc, "").Get("/v1/users/bob/preferences")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "GetNotificationPreferences")
}

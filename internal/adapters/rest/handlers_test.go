package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	analytics_api_client "miniapp-service/internal/adapters/analytics_api"
	"miniapp-service/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearchByAddressUC struct {
	lastAddress   string
	lastCountRoom string
	result        domain.AnalyticsResult
	err           error
}

func (f *fakeSearchByAddressUC) Execute(ctx context.Context, userID uuid.UUID, address, countRoom string) (domain.AnalyticsResult, error) {
	f.lastAddress = address
	f.lastCountRoom = countRoom
	return f.result, f.err
}

type fakeMandatesUC struct {
	result domain.MandateSaveResult
}

func (f *fakeMandatesUC) List(ctx context.Context, userID uuid.UUID) []domain.Mandate {
	return nil
}

func (f *fakeMandatesUC) Save(ctx context.Context, userID uuid.UUID, mandate domain.Mandate, tier string) (domain.MandateSaveResult, error) {
	return f.result, nil
}

func (f *fakeMandatesUC) Delete(ctx context.Context, userID uuid.UUID, mandateID string) {}

type fakeDealsUC struct {
	saved []domain.InvestmentOption
}

func (f *fakeDealsUC) ListDeals(ctx context.Context, userID uuid.UUID) []domain.SavedDeal {
	return nil
}

func (f *fakeDealsUC) SaveDeal(ctx context.Context, userID uuid.UUID, option domain.InvestmentOption) domain.SavedDeal {
	f.saved = append(f.saved, option)
	return domain.SavedDeal{InvestmentOption: option, ID: domain.DeriveDealID(option), SavedAt: 1}
}

func (f *fakeDealsUC) RemoveDeal(ctx context.Context, userID uuid.UUID, dealID string) {}

func (f *fakeDealsUC) ListTracks(ctx context.Context, userID uuid.UUID) []domain.DealTrack {
	return nil
}

func (f *fakeDealsUC) UpsertTrack(ctx context.Context, userID uuid.UUID, dealID, status, notes string) (domain.DealTrack, error) {
	return domain.DealTrack{DealID: dealID, Status: status, Notes: notes}, nil
}

// newAuthedRequest собирает запрос с заголовками, которые в проде
// проставляет API Gateway.
func newAuthedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("X-User-ID", uuid.NewString())
	return req
}

func TestAuthMiddleware_RejectsMissingOrMalformedUserID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_DefaultsUnknownTierToFree(t *testing.T) {
	var seenTier string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTier = tierFromContext(r.Context())
	})
	handler := AuthMiddleware(next)

	req := newAuthedRequest(http.MethodGet, "/api/v1/mandates", "")
	req.Header.Set("X-User-Tier", "platinum")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, domain.TierFree, seenTier)

	req = newAuthedRequest(http.MethodGet, "/api/v1/mandates", "")
	req.Header.Set("X-User-Tier", domain.TierPaid)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, domain.TierPaid, seenTier)
}

func TestSearchByAddress_RequiresAddressParam(t *testing.T) {
	h := NewAnalyticsHandler(&fakeSearchByAddressUC{}, nil, nil, nil, nil, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SearchByAddress))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodGet, "/api/v1/analytics/address", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchByAddress_NoDataPassesThroughAs204(t *testing.T) {
	uc := &fakeSearchByAddressUC{result: domain.AnalyticsResult{NoData: true}}
	h := NewAnalyticsHandler(uc, nil, nil, nil, nil, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SearchByAddress))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodGet, "/api/v1/analytics/address?address=Ленина+10&countRoom=2", ""))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "Ленина 10", uc.lastAddress)
	assert.Equal(t, "2", uc.lastCountRoom)
}

func TestSearchByAddress_ReturnsUpstreamPayload(t *testing.T) {
	uc := &fakeSearchByAddressUC{result: domain.AnalyticsResult{Data: json.RawMessage(`{"averagePrice":95000}`)}}
	h := NewAnalyticsHandler(uc, nil, nil, nil, nil, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SearchByAddress))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodGet, "/api/v1/analytics/address?address=Ленина+10", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"averagePrice":95000}`, rec.Body.String())
}

func TestSearchByAddress_TransportFailureIs503WithKind(t *testing.T) {
	uc := &fakeSearchByAddressUC{err: &analytics_api_client.TransportError{
		Kind:    analytics_api_client.TransportOffline,
		Message: "нет соединения с интернетом",
	}}
	h := NewAnalyticsHandler(uc, nil, nil, nil, nil, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SearchByAddress))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodGet, "/api/v1/analytics/address?address=Ленина+10", ""))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, analytics_api_client.TransportOffline, resp.Kind)
	assert.Equal(t, "нет соединения с интернетом", resp.Error)
}

func TestSaveMandate_TierLimitRejectionIsOKWithSuccessFalse(t *testing.T) {
	mandates := &fakeMandatesUC{result: domain.MandateSaveResult{
		Success: false,
		Error:   "Достигнут лимит мандатов для бесплатного тарифа",
	}}
	h := NewCollectionsHandler(nil, mandates, nil, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SaveMandate))

	body := `{"name":"Аренда в центре","strategy":"rent","budgetMin":1000000,"budgetMax":4000000}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodPost, "/api/v1/mandates", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.MandateSaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestSaveDeal_RejectsUnrenderableOption(t *testing.T) {
	deals := &fakeDealsUC{}
	h := NewCollectionsHandler(nil, nil, deals, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SaveDeal))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodPost, "/api/v1/deals", `{"fullAddress":"","price":0}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, deals.saved)
}

func TestSaveDeal_CreatedWithDerivedID(t *testing.T) {
	deals := &fakeDealsUC{}
	h := NewCollectionsHandler(nil, nil, deals, nil)
	handler := AuthMiddleware(http.HandlerFunc(h.SaveDeal))

	rec := httptest.NewRecorder()
	body := `{"fullAddress":"Мурманск д 10 Ленина","price":3500000}`
	handler.ServeHTTP(rec, newAuthedRequest(http.MethodPost, "/api/v1/deals", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var deal domain.SavedDeal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Len(t, deal.ID, 32)
	require.Len(t, deals.saved, 1)
}

type fakePreferencesUC struct {
	theme string
}

func (f *fakePreferencesUC) GetTheme(ctx context.Context, userID uuid.UUID) string {
	if f.theme == "" {
		return domain.ThemeSystem
	}
	return f.theme
}

func (f *fakePreferencesUC) SetTheme(ctx context.Context, userID uuid.UUID, theme string) error {
	if !domain.ValidThemes[theme] {
		return domain.ErrValidation
	}
	f.theme = theme
	return nil
}

func TestThemePreference_RoundTripAndValidation(t *testing.T) {
	prefs := &fakePreferencesUC{}
	h := NewCollectionsHandler(nil, nil, nil, prefs)

	get := AuthMiddleware(http.HandlerFunc(h.GetTheme))
	set := AuthMiddleware(http.HandlerFunc(h.SetTheme))

	rec := httptest.NewRecorder()
	get.ServeHTTP(rec, newAuthedRequest(http.MethodGet, "/api/v1/preferences/theme", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"system"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	set.ServeHTTP(rec, newAuthedRequest(http.MethodPut, "/api/v1/preferences/theme", `{"theme":"dark"}`))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.ThemeDark, prefs.theme)

	rec = httptest.NewRecorder()
	set.ServeHTTP(rec, newAuthedRequest(http.MethodPut, "/api/v1/preferences/theme", `{"theme":"neon"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertDealTrack_ReadsDealIDFromRoute(t *testing.T) {
	deals := &fakeDealsUC{}
	h := NewCollectionsHandler(nil, nil, deals, nil)

	router := chi.NewRouter()
	router.Use(AuthMiddleware)
	router.Put("/api/v1/deals/{dealID}/track", h.UpsertDealTrack)

	rec := httptest.NewRecorder()
	req := newAuthedRequest(http.MethodPut, "/api/v1/deals/abc123/track", `{"status":"idea","notes":"посмотреть"}`)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var track domain.DealTrack
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	assert.Equal(t, "abc123", track.DealID)
	assert.Equal(t, domain.DealStatusIdea, track.Status)
}

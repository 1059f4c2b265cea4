package rest

import (
	"encoding/json"
	"net/http"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// CollectionsHandler обслуживает пользовательские коллекции:
// историю поиска, мандаты, сохраненные сделки и их треки.
type CollectionsHandler struct {
	historyUC     usecases_port.ManageHistoryUseCasePort
	mandatesUC    usecases_port.ManageMandatesUseCasePort
	dealsUC       usecases_port.ManageDealsUseCasePort
	preferencesUC usecases_port.ManagePreferencesUseCasePort
}

func NewCollectionsHandler(
	historyUC usecases_port.ManageHistoryUseCasePort,
	mandatesUC usecases_port.ManageMandatesUseCasePort,
	dealsUC usecases_port.ManageDealsUseCasePort,
	preferencesUC usecases_port.ManagePreferencesUseCasePort,
) *CollectionsHandler {
	return &CollectionsHandler{
		historyUC:     historyUC,
		mandatesUC:    mandatesUC,
		dealsUC:       dealsUC,
		preferencesUC: preferencesUC,
	}
}

// --- История поиска ---

// GetHistory обрабатывает GET /api/v1/history
func (h *CollectionsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	items := h.historyUC.List(r.Context(), userID)
	if items == nil {
		items = []domain.SearchHistoryItem{}
	}
	RespondWithJSON(w, http.StatusOK, items)
}

// AddHistory обрабатывает POST /api/v1/history
func (h *CollectionsHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddHistory"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var req AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode history request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Address == "" {
		WriteJSONError(w, http.StatusBadRequest, "address is required")
		return
	}

	h.historyUC.Add(r.Context(), userID, req.Address, req.CountRoom)
	w.WriteHeader(http.StatusCreated)
}

// RemoveHistoryItem обрабатывает DELETE /api/v1/history/{itemID}
func (h *CollectionsHandler) RemoveHistoryItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	h.historyUC.Remove(r.Context(), userID, chi.URLParam(r, "itemID"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearHistory обрабатывает DELETE /api/v1/history
func (h *CollectionsHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	h.historyUC.Clear(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}

// --- Мандаты инвестора ---

// GetMandates обрабатывает GET /api/v1/mandates
func (h *CollectionsHandler) GetMandates(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	mandates := h.mandatesUC.List(r.Context(), userID)
	if mandates == nil {
		mandates = []domain.Mandate{}
	}
	RespondWithJSON(w, http.StatusOK, mandates)
}

// SaveMandate обрабатывает POST /api/v1/mandates.
// Отклонение лимитом тарифа отдается статусом 200 с success=false:
// для клиента это штатный результат операции, а не ошибка.
func (h *CollectionsHandler) SaveMandate(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SaveMandate"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var mandate domain.Mandate
	if err := json.NewDecoder(r.Body).Decode(&mandate); err != nil {
		logger.Warn("Failed to decode mandate request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.mandatesUC.Save(r.Context(), userID, mandate, tierFromContext(r.Context()))
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

// DeleteMandate обрабатывает DELETE /api/v1/mandates/{mandateID}
func (h *CollectionsHandler) DeleteMandate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	h.mandatesUC.Delete(r.Context(), userID, chi.URLParam(r, "mandateID"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Настройки интерфейса ---

// GetTheme обрабатывает GET /api/v1/preferences/theme
func (h *CollectionsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	RespondWithJSON(w, http.StatusOK, ThemeResponse{
		Theme: h.preferencesUC.GetTheme(r.Context(), userID),
	})
}

// SetTheme обрабатывает PUT /api/v1/preferences/theme
func (h *CollectionsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SetTheme"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var req ThemeResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode theme request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.preferencesUC.SetTheme(r.Context(), userID, req.Theme); err != nil {
		handleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Сохраненные сделки и треки ---

// GetDeals обрабатывает GET /api/v1/deals
func (h *CollectionsHandler) GetDeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	deals := h.dealsUC.ListDeals(r.Context(), userID)
	if deals == nil {
		deals = []domain.SavedDeal{}
	}
	RespondWithJSON(w, http.StatusOK, deals)
}

// SaveDeal обрабатывает POST /api/v1/deals
func (h *CollectionsHandler) SaveDeal(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SaveDeal"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var option domain.InvestmentOption
	if err := json.NewDecoder(r.Body).Decode(&option); err != nil {
		logger.Warn("Failed to decode deal request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if check := domain.ValidateOption(option); !check.Valid {
		WriteJSONError(w, http.StatusBadRequest, "investment option is not saveable: "+check.Reason)
		return
	}

	deal := h.dealsUC.SaveDeal(r.Context(), userID, option)
	RespondWithJSON(w, http.StatusCreated, deal)
}

// RemoveDeal обрабатывает DELETE /api/v1/deals/{dealID}
func (h *CollectionsHandler) RemoveDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	h.dealsUC.RemoveDeal(r.Context(), userID, chi.URLParam(r, "dealID"))
	w.WriteHeader(http.StatusNoContent)
}

// GetDealTracks обрабатывает GET /api/v1/deals/tracks
func (h *CollectionsHandler) GetDealTracks(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	tracks := h.dealsUC.ListTracks(r.Context(), userID)
	if tracks == nil {
		tracks = []domain.DealTrack{}
	}
	RespondWithJSON(w, http.StatusOK, tracks)
}

// UpsertDealTrack обрабатывает PUT /api/v1/deals/{dealID}/track
func (h *CollectionsHandler) UpsertDealTrack(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpsertDealTrack"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var req UpsertTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode track request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	track, err := h.dealsUC.UpsertTrack(r.Context(), userID, chi.URLParam(r, "dealID"), req.Status, req.Notes)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, track)
}

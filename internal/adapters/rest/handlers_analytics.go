package rest

import (
	"net/http"
	"strconv"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/port"
	"miniapp-service/internal/core/port/usecases_port"
)

// AnalyticsHandler обслуживает поисковую аналитику и подсказки.
type AnalyticsHandler struct {
	byAddressUC   usecases_port.SearchByAddressUseCasePort
	byDistrictUC  usecases_port.SearchByDistrictUseCasePort
	byCityUC      usecases_port.SearchByCityUseCasePort
	citiesUC      usecases_port.ListCitiesUseCasePort
	suggestAddrUC usecases_port.SuggestAddressesUseCasePort
	suggestCityUC usecases_port.SuggestCitiesUseCasePort
}

func NewAnalyticsHandler(
	byAddressUC usecases_port.SearchByAddressUseCasePort,
	byDistrictUC usecases_port.SearchByDistrictUseCasePort,
	byCityUC usecases_port.SearchByCityUseCasePort,
	citiesUC usecases_port.ListCitiesUseCasePort,
	suggestAddrUC usecases_port.SuggestAddressesUseCasePort,
	suggestCityUC usecases_port.SuggestCitiesUseCasePort,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		byAddressUC:   byAddressUC,
		byDistrictUC:  byDistrictUC,
		byCityUC:      byCityUC,
		citiesUC:      citiesUC,
		suggestAddrUC: suggestAddrUC,
		suggestCityUC: suggestCityUC,
	}
}

// SearchByAddress обрабатывает GET /api/v1/analytics/address
func (h *AnalyticsHandler) SearchByAddress(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchByAddress"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		WriteJSONError(w, http.StatusBadRequest, "address query parameter is required")
		return
	}
	countRoom := r.URL.Query().Get("countRoom")

	result, err := h.byAddressUC.Execute(r.Context(), userID, address, countRoom)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	if result.NoData {
		// Апстрим отвечает 204, когда по адресу нет объявлений.
		// Этот статус пробрасывается как есть: "нет данных" не ошибка.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondWithJSON(w, http.StatusOK, result.Data)
}

// SearchByDistrict обрабатывает GET /api/v1/analytics/district
func (h *AnalyticsHandler) SearchByDistrict(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchByDistrict"})

	district := r.URL.Query().Get("district")
	if district == "" {
		WriteJSONError(w, http.StatusBadRequest, "district query parameter is required")
		return
	}

	result, err := h.byDistrictUC.Execute(
		r.Context(),
		district,
		r.URL.Query().Get("countRoom"),
		r.URL.Query().Get("houseMaterial"),
	)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	if result.NoData {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondWithJSON(w, http.StatusOK, result.Data)
}

// SearchByCity обрабатывает GET /api/v1/analytics/city
func (h *AnalyticsHandler) SearchByCity(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchByCity"})

	city := r.URL.Query().Get("city")
	if city == "" {
		WriteJSONError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}

	result, err := h.byCityUC.Execute(
		r.Context(),
		city,
		r.URL.Query().Get("countRoom"),
		r.URL.Query().Get("houseMaterial"),
	)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	if result.NoData {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondWithJSON(w, http.StatusOK, result.Data)
}

// ListCities обрабатывает GET /api/v1/analytics/cities
func (h *AnalyticsHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListCities"})

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	result, err := h.citiesUC.Execute(r.Context(), page, size)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, result.Data)
}

// SuggestAddresses обрабатывает GET /api/v1/suggest/addresses
func (h *AnalyticsHandler) SuggestAddresses(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SuggestAddresses"})

	suggestions, err := h.suggestAddrUC.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, suggestions)
}

// SuggestCities обрабатывает GET /api/v1/suggest/cities
func (h *AnalyticsHandler) SuggestCities(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SuggestCities"})

	suggestions, err := h.suggestCityUC.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, suggestions)
}

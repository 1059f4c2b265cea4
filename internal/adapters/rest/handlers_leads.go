package rest

import (
	"encoding/json"
	"net/http"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/internal/core/port/usecases_port"
)

// LeadsHandler обслуживает лид-форму и запрос прогноза.
type LeadsHandler struct {
	urgentSaleUC usecases_port.SubmitUrgentSaleUseCasePort
	forecastUC   usecases_port.RequestForecastUseCasePort
}

func NewLeadsHandler(urgentSaleUC usecases_port.SubmitUrgentSaleUseCasePort, forecastUC usecases_port.RequestForecastUseCasePort) *LeadsHandler {
	return &LeadsHandler{urgentSaleUC: urgentSaleUC, forecastUC: forecastUC}
}

// SubmitUrgentSale обрабатывает POST /api/v1/leads/urgent-sale
func (h *LeadsHandler) SubmitUrgentSale(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitUrgentSale"})

	var app domain.UrgentSaleApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		logger.Warn("Failed to decode application body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.urgentSaleUC.Execute(r.Context(), app); err != nil {
		handleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// RequestForecast обрабатывает POST /api/v1/forecast
func (h *LeadsHandler) RequestForecast(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RequestForecast"})

	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode forecast body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.forecastUC.Execute(r.Context(), domain.ForecastRequest{
		Address:   req.Address,
		CountRoom: req.CountRoom,
		History:   req.History,
	})
	if err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/internal/core/port/usecases_port"
)

// InvestHandler обслуживает раздел инвестиций: подборку и авторизацию.
type InvestHandler struct {
	topUC  usecases_port.GetTopInvestmentsUseCasePort
	authUC usecases_port.AuthorizeInvestorUseCasePort
}

func NewInvestHandler(topUC usecases_port.GetTopInvestmentsUseCasePort, authUC usecases_port.AuthorizeInvestorUseCasePort) *InvestHandler {
	return &InvestHandler{topUC: topUC, authUC: authUC}
}

// GetTopInvestments обрабатывает GET /api/v1/invest/top
func (h *InvestHandler) GetTopInvestments(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetTopInvestments"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var budget *float64
	if budgetStr := r.URL.Query().Get("budget"); budgetStr != "" {
		value, err := strconv.ParseFloat(budgetStr, 64)
		if err != nil || value <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "budget must be a positive number")
			return
		}
		budget = &value
	}

	options, err := h.topUC.Execute(r.Context(), userID, budget)
	if err != nil {
		handleError(w, logger, err)
		return
	}
	if options == nil {
		options = []domain.InvestmentOption{}
	}
	RespondWithJSON(w, http.StatusOK, options)
}

// Authorize обрабатывает POST /api/v1/invest/auth
func (h *InvestHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AuthorizeInvestor"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode auth request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authUC.Execute(r.Context(), userID, req.Code); err != nil {
		handleError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, AuthStatusResponse{Authorized: true})
}

// AuthStatus обрабатывает GET /api/v1/invest/auth/status
func (h *InvestHandler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "InvestAuthStatus"})

	userID, ok := userFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	RespondWithJSON(w, http.StatusOK, AuthStatusResponse{
		Authorized: h.authUC.IsAuthorized(r.Context(), userID),
	})
}

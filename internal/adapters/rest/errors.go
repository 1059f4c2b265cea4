package rest

import (
	"errors"
	"net/http"

	analytics_api_client "miniapp-service/internal/adapters/analytics_api"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
)

// handleError переводит ошибку ядра или адаптера в HTTP-ответ.
// Транспортные сбои апстрима отдаются с категорией, чтобы фронтенд
// мог показать пользователю осмысленное сообщение.
func handleError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	var transportErr *analytics_api_client.TransportError
	if errors.As(err, &transportErr) {
		RespondWithJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: transportErr.Message,
			Kind:  transportErr.Kind,
		})
		return
	}

	var upstreamErr *analytics_api_client.UpstreamError
	if errors.As(err, &upstreamErr) {
		logger.Warn("Upstream returned an error", port.Fields{"status_code": upstreamErr.Status})
		WriteJSONError(w, http.StatusBadGateway, "сервер аналитики вернул ошибку, повторите запрос позже")
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		WriteJSONError(w, http.StatusForbidden, "доступ к разделу инвестиций требует партнерского кода")
	case errors.Is(err, domain.ErrInvalidAuthCode):
		WriteJSONError(w, http.StatusUnauthorized, "неверный или просроченный код доступа")
	default:
		logger.Error("Request failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "внутренняя ошибка сервиса")
	}
}

package rest

import (
	"miniapp-service/internal/core/domain"
)

// AddHistoryRequest - тело запроса для добавления записи истории.
type AddHistoryRequest struct {
	Address   string `json:"address"`
	CountRoom string `json:"countRoom"`
}

// AuthRequest - тело запроса авторизации инвестора.
type AuthRequest struct {
	Code string `json:"code"`
}

// AuthStatusResponse - состояние авторизации инвестора.
type AuthStatusResponse struct {
	Authorized bool `json:"authorized"`
}

// UpsertTrackRequest - тело запроса установки статуса трека сделки.
type UpsertTrackRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ThemeResponse - тема оформления; та же структура служит телом PUT.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// ForecastRequest - тело запроса прогноза цены.
type ForecastRequest struct {
	Address   string                  `json:"address"`
	CountRoom string                  `json:"countRoom"`
	History   []domain.ForecastSample `json:"history"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/port"
)

// Подсказки ходят в апстрим напрямую, без кэша запросов: каждое нажатие
// клавиши меняет запрос, кэшировать такие ключи бессмысленно.

// SuggestAddressesUseCase - автодополнение адреса.
type SuggestAddressesUseCase struct {
	api port.AnalyticsAPIPort
}

func NewSuggestAddressesUseCase(api port.AnalyticsAPIPort) *SuggestAddressesUseCase {
	return &SuggestAddressesUseCase{api: api}
}

func (uc *SuggestAddressesUseCase) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return json.RawMessage("[]"), nil
	}

	logger := contextkeys.LoggerFromContext(ctx)
	suggestions, err := uc.api.SuggestAddresses(ctx, query)
	if err != nil {
		logger.WithFields(port.Fields{"use_case": "SuggestAddresses"}).Error("Suggestion request failed", err, nil)
		return nil, err
	}
	return suggestions, nil
}

// SuggestCitiesUseCase - автодополнение города.
type SuggestCitiesUseCase struct {
	api port.AnalyticsAPIPort
}

func NewSuggestCitiesUseCase(api port.AnalyticsAPIPort) *SuggestCitiesUseCase {
	return &SuggestCitiesUseCase{api: api}
}

func (uc *SuggestCitiesUseCase) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return json.RawMessage("[]"), nil
	}

	logger := contextkeys.LoggerFromContext(ctx)
	suggestions, err := uc.api.SuggestCities(ctx, query)
	if err != nil {
		logger.WithFields(port.Fields{"use_case": "SuggestCities"}).Error("Suggestion request failed", err, nil)
		return nil, err
	}
	return suggestions, nil
}

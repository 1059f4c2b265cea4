package usecase

import (
	"context"
	"fmt"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
)

// RequestForecastUseCase - запрос ML-прогноза цены по историческому ряду.
type RequestForecastUseCase struct {
	api port.ForecastAPIPort
}

func NewRequestForecastUseCase(api port.ForecastAPIPort) *RequestForecastUseCase {
	return &RequestForecastUseCase{api: api}
}

func (uc *RequestForecastUseCase) Execute(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "RequestForecast"})

	if len(req.History) == 0 {
		return domain.ForecastResult{}, fmt.Errorf("%w: price history is required for forecast", domain.ErrValidation)
	}
	req.Address = domain.NormalizeAddress(req.Address)

	result, err := uc.api.Forecast(ctx, req)
	if err != nil {
		ucLogger.Error("Forecast request failed", err, nil)
		return domain.ForecastResult{}, err
	}
	return result, nil
}

package usecases_port

import (
	"context"
	"miniapp-service/internal/core/domain"
)

// SubmitUrgentSaleUseCasePort - прием заявки лид-формы.
type SubmitUrgentSaleUseCasePort interface {
	Execute(ctx context.Context, app domain.UrgentSaleApplication) error
}

// RequestForecastUseCasePort - запрос ML-прогноза цены.
type RequestForecastUseCasePort interface {
	Execute(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error)
}

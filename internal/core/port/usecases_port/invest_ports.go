package usecases_port

import (
	"context"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
)

// GetTopInvestmentsUseCasePort - подборка инвестиционных вариантов.
// budget == nil означает общий топ без фильтра по бюджету.
type GetTopInvestmentsUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, budget *float64) ([]domain.InvestmentOption, error)
}

// AuthorizeInvestorUseCasePort - проверка партнерского кода и состояние
// авторизации. Статус проверяется лениво, просроченный код очищается.
type AuthorizeInvestorUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, code string) error
	IsAuthorized(ctx context.Context, userID uuid.UUID) bool
}

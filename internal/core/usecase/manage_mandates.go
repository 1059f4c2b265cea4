package usecase

import (
	"context"
	"fmt"
	"strings"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

var validStrategies = map[string]bool{
	domain.StrategyRent:    true,
	domain.StrategyFlip:    true,
	domain.StrategyParking: true,
}

var validRisks = map[string]bool{
	domain.RiskLow:    true,
	domain.RiskMedium: true,
	domain.RiskHigh:   true,
}

// ManageMandatesUseCase - операции над инвестиционными мандатами.
// Лимит по тарифу проверяет репозиторий, сюда вынесена валидация полей.
type ManageMandatesUseCase struct {
	repo port.MandateRepositoryPort
}

func NewManageMandatesUseCase(repo port.MandateRepositoryPort) *ManageMandatesUseCase {
	return &ManageMandatesUseCase{repo: repo}
}

func (uc *ManageMandatesUseCase) List(ctx context.Context, userID uuid.UUID) []domain.Mandate {
	return uc.repo.List(ctx, userID)
}

func (uc *ManageMandatesUseCase) Save(ctx context.Context, userID uuid.UUID, mandate domain.Mandate, tier string) (domain.MandateSaveResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ManageMandates",
		"user_id":  userID,
	})

	if strings.TrimSpace(mandate.Name) == "" {
		return domain.MandateSaveResult{}, fmt.Errorf("%w: mandate name is required", domain.ErrValidation)
	}
	if mandate.Strategy != "" && !validStrategies[mandate.Strategy] {
		return domain.MandateSaveResult{}, fmt.Errorf("%w: unknown strategy %q", domain.ErrValidation, mandate.Strategy)
	}
	if mandate.MaxRisk != "" && !validRisks[mandate.MaxRisk] {
		return domain.MandateSaveResult{}, fmt.Errorf("%w: unknown risk level %q", domain.ErrValidation, mandate.MaxRisk)
	}
	if mandate.BudgetMax > 0 && mandate.BudgetMin > mandate.BudgetMax {
		return domain.MandateSaveResult{}, fmt.Errorf("%w: budgetMin exceeds budgetMax", domain.ErrValidation)
	}

	result := uc.repo.Save(ctx, userID, mandate, tier)
	if !result.Success {
		// Отклонение лимитом тарифа - штатный исход, не ошибка приложения.
		ucLogger.Info("Mandate save rejected", port.Fields{"reason": result.Error})
	}
	return result, nil
}

func (uc *ManageMandatesUseCase) Delete(ctx context.Context, userID uuid.UUID, mandateID string) {
	uc.repo.Delete(ctx, userID, mandateID)
}

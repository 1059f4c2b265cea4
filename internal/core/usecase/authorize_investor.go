package usecase

import (
	"context"
	"strings"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"

	"github.com/google/uuid"
)

// AuthorizeInvestorUseCase - авторизация по партнерскому коду.
// Принятый код действует 7 дней, просроченный сбрасывается при проверке.
type AuthorizeInvestorUseCase struct {
	api     port.InvestAPIPort
	auth    port.AuthStateRepositoryPort
	queries *querycache.Cache
}

func NewAuthorizeInvestorUseCase(api port.InvestAPIPort, auth port.AuthStateRepositoryPort, queries *querycache.Cache) *AuthorizeInvestorUseCase {
	return &AuthorizeInvestorUseCase{api: api, auth: auth, queries: queries}
}

func (uc *AuthorizeInvestorUseCase) Execute(ctx context.Context, userID uuid.UUID, code string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AuthorizeInvestor",
		"user_id":  userID,
	})

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidAuthCode
	}

	// Проверка кода идет путем мутации: транспортный сбой повторяется,
	// отвергнутый код - нет, это ответ апстрима, а не сбой.
	var accepted bool
	err := uc.queries.Mutate(ctx, func(ctx context.Context) error {
		ok, err := uc.api.ValidateAccessCode(ctx, code)
		if err != nil {
			return err
		}
		accepted = ok
		return nil
	})
	if err != nil {
		ucLogger.Error("Access code validation request failed", err, nil)
		return err
	}
	if !accepted {
		ucLogger.Info("Access code rejected", nil)
		return domain.ErrInvalidAuthCode
	}

	uc.auth.Save(ctx, userID, code)
	// Инвестиционные ключи могли закэшироваться до авторизации,
	// после нее раздел начинает с чистого листа.
	uc.queries.Invalidate("invest/")
	ucLogger.Info("Investor authorized", nil)
	return nil
}

func (uc *AuthorizeInvestorUseCase) IsAuthorized(ctx context.Context, userID uuid.UUID) bool {
	return uc.auth.IsAuthorized(ctx, userID)
}

package usecase

import (
	"context"
	"encoding/json"
	"strconv"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"

	"github.com/google/uuid"
)

// GetTopInvestmentsUseCase - подборка инвестиционных вариантов.
// Доступна только авторизованным по партнерскому коду пользователям.
type GetTopInvestmentsUseCase struct {
	api     port.InvestAPIPort
	auth    port.AuthStateRepositoryPort
	queries *querycache.Cache
}

func NewGetTopInvestmentsUseCase(api port.InvestAPIPort, auth port.AuthStateRepositoryPort, queries *querycache.Cache) *GetTopInvestmentsUseCase {
	return &GetTopInvestmentsUseCase{api: api, auth: auth, queries: queries}
}

// Execute возвращает провалидированную подборку. budget == nil - общий топ.
func (uc *GetTopInvestmentsUseCase) Execute(ctx context.Context, userID uuid.UUID, budget *float64) ([]domain.InvestmentOption, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetTopInvestments",
		"user_id":  userID,
	})

	if !uc.auth.IsAuthorized(ctx, userID) {
		ucLogger.Warn("Unauthorized access to investments", nil)
		return nil, domain.ErrNotAuthorized
	}

	key := querycache.Key{Domain: "invest", Op: "top", Params: ""}
	fetchRaw := uc.api.TopOptions
	if budget != nil {
		key = querycache.Key{
			Domain: "invest",
			Op:     "topByBudget",
			Params: "budget=" + strconv.FormatFloat(*budget, 'f', -1, 64),
		}
		b := *budget
		fetchRaw = func(ctx context.Context) (json.RawMessage, error) {
			return uc.api.TopOptionsByBudget(ctx, b)
		}
	}

	data, err := uc.queries.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		raw, err := fetchRaw(ctx)
		if err != nil {
			return nil, err
		}
		valid, dropped, err := domain.ParseInvestmentOptions(raw)
		if err != nil {
			return nil, err
		}
		if len(dropped) > 0 {
			ucLogger.Debug("Dropped invalid investment records", port.Fields{"count": len(dropped)})
		}
		return valid, nil
	})
	if err != nil {
		ucLogger.Error("Investments request failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return data.([]domain.InvestmentOption), nil
}

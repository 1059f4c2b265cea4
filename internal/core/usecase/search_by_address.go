package usecase

import (
	"context"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"

	"github.com/google/uuid"
)

// SearchByAddressUseCase - аналитика по адресу. Перед запросом адрес
// нормализуется к виду "<Город> д <номер> <улица>", успешный поиск
// (включая ответ "нет данных") записывается в историю пользователя.
type SearchByAddressUseCase struct {
	api     port.AnalyticsAPIPort
	history port.HistoryRepositoryPort
	queries *querycache.Cache
}

func NewSearchByAddressUseCase(api port.AnalyticsAPIPort, history port.HistoryRepositoryPort, queries *querycache.Cache) *SearchByAddressUseCase {
	return &SearchByAddressUseCase{api: api, history: history, queries: queries}
}

func (uc *SearchByAddressUseCase) Execute(ctx context.Context, userID uuid.UUID, address, countRoom string) (domain.AnalyticsResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchByAddress",
		"user_id":  userID,
	})

	normalized := domain.NormalizeAddress(address)
	if domain.IsWholeAreaSentinel(countRoom) {
		// "Весь город"/"Весь район" означают отсутствие фильтра по комнатности.
		countRoom = ""
	}

	ucLogger.Info("Use case started", port.Fields{"address": normalized, "count_room": countRoom})

	key := querycache.Key{Domain: "analytics", Op: "byAddress", Params: "street=" + normalized + "&countRoom=" + countRoom}
	data, err := uc.queries.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return uc.api.ByAddress(ctx, normalized, countRoom)
	})
	if err != nil {
		ucLogger.Error("Analytics request failed", err, nil)
		return domain.AnalyticsResult{}, err
	}

	// История пополняется и при NoData: пользователь искал этот адрес.
	uc.history.Add(ctx, userID, normalized, countRoom)

	ucLogger.Info("Use case finished successfully", nil)
	return data.(domain.AnalyticsResult), nil
}

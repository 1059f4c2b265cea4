package usecase

import (
	"context"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"
)

// SearchByCityUseCase - аналитика по городу целиком.
type SearchByCityUseCase struct {
	api     port.AnalyticsAPIPort
	queries *querycache.Cache
}

func NewSearchByCityUseCase(api port.AnalyticsAPIPort, queries *querycache.Cache) *SearchByCityUseCase {
	return &SearchByCityUseCase{api: api, queries: queries}
}

func (uc *SearchByCityUseCase) Execute(ctx context.Context, city, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchByCity",
		"city":     city,
	})

	city = domain.NormalizeCity(city)
	if domain.IsWholeAreaSentinel(countRoom) {
		countRoom = ""
	}

	key := querycache.Key{
		Domain: "analytics",
		Op:     "byCity",
		Params: "city=" + city + "&countRoom=" + countRoom + "&houseMaterial=" + houseMaterial,
	}
	data, err := uc.queries.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return uc.api.ByCity(ctx, city, countRoom, houseMaterial)
	})
	if err != nil {
		ucLogger.Error("Analytics request failed", err, nil)
		return domain.AnalyticsResult{}, err
	}

	return data.(domain.AnalyticsResult), nil
}

package usecase

import (
	"context"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"
)

// SearchByDistrictUseCase - аналитика по району города.
type SearchByDistrictUseCase struct {
	api     port.AnalyticsAPIPort
	queries *querycache.Cache
}

func NewSearchByDistrictUseCase(api port.AnalyticsAPIPort, queries *querycache.Cache) *SearchByDistrictUseCase {
	return &SearchByDistrictUseCase{api: api, queries: queries}
}

func (uc *SearchByDistrictUseCase) Execute(ctx context.Context, district, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchByDistrict",
		"district": district,
	})

	if domain.IsWholeAreaSentinel(countRoom) {
		countRoom = ""
	}

	key := querycache.Key{
		Domain: "analytics",
		Op:     "byDistrict",
		Params: "district=" + district + "&countRoom=" + countRoom + "&houseMaterial=" + houseMaterial,
	}
	data, err := uc.queries.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return uc.api.ByDistrict(ctx, district, countRoom, houseMaterial)
	})
	if err != nil {
		ucLogger.Error("Analytics request failed", err, nil)
		return domain.AnalyticsResult{}, err
	}

	return data.(domain.AnalyticsResult), nil
}

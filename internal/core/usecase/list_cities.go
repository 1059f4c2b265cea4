package usecase

import (
	"context"
	"strconv"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"
)

// ListCitiesUseCase - пагинированный список городов с известной аналитикой.
type ListCitiesUseCase struct {
	api     port.AnalyticsAPIPort
	queries *querycache.Cache
}

func NewListCitiesUseCase(api port.AnalyticsAPIPort, queries *querycache.Cache) *ListCitiesUseCase {
	return &ListCitiesUseCase{api: api, queries: queries}
}

func (uc *ListCitiesUseCase) Execute(ctx context.Context, page, size int) (domain.CityPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	key := querycache.Key{
		Domain: "analytics",
		Op:     "cities",
		Params: "page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size),
	}
	data, err := uc.queries.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return uc.api.Cities(ctx, page, size)
	})
	if err != nil {
		logger.WithFields(port.Fields{"use_case": "ListCities"}).Error("Cities request failed", err, nil)
		return domain.CityPage{}, err
	}

	return data.(domain.CityPage), nil
}

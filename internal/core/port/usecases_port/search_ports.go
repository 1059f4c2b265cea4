package usecases_port

import (
	"context"
	"encoding/json"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
)

// SearchByAddressUseCasePort - аналитика по адресу.
// Успешный поиск (включая "нет данных") попадает в историю пользователя.
type SearchByAddressUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, address, countRoom string) (domain.AnalyticsResult, error)
}

// SearchByDistrictUseCasePort - аналитика по району.
type SearchByDistrictUseCasePort interface {
	Execute(ctx context.Context, district, countRoom, houseMaterial string) (domain.AnalyticsResult, error)
}

// SearchByCityUseCasePort - аналитика по городу.
type SearchByCityUseCasePort interface {
	Execute(ctx context.Context, city, countRoom, houseMaterial string) (domain.AnalyticsResult, error)
}

// ListCitiesUseCasePort - пагинированный список городов.
type ListCitiesUseCasePort interface {
	Execute(ctx context.Context, page, size int) (domain.CityPage, error)
}

// SuggestAddressesUseCasePort - автодополнение адреса.
type SuggestAddressesUseCasePort interface {
	Execute(ctx context.Context, query string) (json.RawMessage, error)
}

// SuggestCitiesUseCasePort - автодополнение города.
type SuggestCitiesUseCasePort interface {
	Execute(ctx context.Context, query string) (json.RawMessage, error)
}

package port

import (
	"context"
	"encoding/json"
	"miniapp-service/internal/core/domain"
)

// AnalyticsAPIPort - контракт клиента удаленного API аналитики цен.
// Все методы возвращают результат с флагом NoData для ответа 204:
// "нет данных" - это не ошибка, и UI должен их различать.
type AnalyticsAPIPort interface {
	// ByAddress - GET /ads/analytic/v1.1. street уже нормализован ядром.
	ByAddress(ctx context.Context, street, countRoom string) (domain.AnalyticsResult, error)

	// ByDistrict - GET /ads/analytic/district.
	ByDistrict(ctx context.Context, district, countRoom, houseMaterial string) (domain.AnalyticsResult, error)

	// ByCity - GET /ads/analytic/city.
	ByCity(ctx context.Context, city, countRoom, houseMaterial string) (domain.AnalyticsResult, error)

	// Cities - GET /ads/analytic/city/all, пагинированный список городов.
	Cities(ctx context.Context, page, size int) (domain.CityPage, error)

	// SuggestAddresses - GET /ads/address/suggestion.
	SuggestAddresses(ctx context.Context, query string) (json.RawMessage, error)

	// SuggestCities - GET /ads/address/city.
	SuggestCities(ctx context.Context, query string) (json.RawMessage, error)
}

// InvestAPIPort - контракт инвестиционной части удаленного API.
type InvestAPIPort interface {
	// TopOptions - GET /ads/invest/top. Возвращает сырой массив,
	// валидация записей - задача ядра.
	TopOptions(ctx context.Context) (json.RawMessage, error)

	// TopOptionsByBudget - GET /ads/invest/top/by-budget.
	TopOptionsByBudget(ctx context.Context, budget float64) (json.RawMessage, error)

	// ValidateAccessCode - GET /ads/invest/auth. true, если код принят.
	ValidateAccessCode(ctx context.Context, code string) (bool, error)
}

// LeadAPIPort - контракт отправки лид-формы в апстрим.
type LeadAPIPort interface {
	// SubmitUrgentSale - POST /ads/urgent-sale/application.
	SubmitUrgentSale(ctx context.Context, app domain.UrgentSaleApplication) error
}

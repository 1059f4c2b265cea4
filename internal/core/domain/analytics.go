package domain

import "encoding/json"

// AnalyticsResult - результат запроса аналитики цен.
// Тело ответа апстрима отдается Mini App как есть (его структуру определяет
// сервис аналитики), флаг NoData соответствует ответу 204.
type AnalyticsResult struct {
	Data   json.RawMessage
	NoData bool
}

// CityPage - страница пагинированного списка городов.
type CityPage struct {
	Data json.RawMessage
}

// ForecastRequest - запрос ML-прогноза цены: исторический ряд цен внутрь,
// прогноз на 3/6/12 месяцев наружу.
type ForecastRequest struct {
	Address   string           `json:"address"`
	CountRoom string           `json:"countRoom,omitempty"`
	History   []ForecastSample `json:"history"`
}

// ForecastSample - одна точка исторического ряда цен.
type ForecastSample struct {
	Period string  `json:"period"`
	Price  float64 `json:"price"`
}

// ForecastResult - ответ ML-сервиса с горизонтами 3/6/12 месяцев.
type ForecastResult struct {
	ThreeMonths  float64 `json:"forecast3m"`
	SixMonths    float64 `json:"forecast6m"`
	TwelveMonths float64 `json:"forecast12m"`
}

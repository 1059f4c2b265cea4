package analytics_api_client

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
)

// Эндпоинты удаленного API. Версию v1.1 закрепил бэкенд аналитики.
const (
	endpointAnalyticsAddress  = "/ads/analytic/v1.1"
	endpointAnalyticsDistrict = "/ads/analytic/district"
	endpointAnalyticsCity     = "/ads/analytic/city"
	endpointCitiesAll         = "/ads/analytic/city/all"
	endpointSuggestAddress    = "/ads/address/suggestion"
	endpointSuggestCity       = "/ads/address/city"
	endpointInvestTop         = "/ads/invest/top"
	endpointInvestTopByBudget = "/ads/invest/top/by-budget"
	endpointInvestAuth        = "/ads/invest/auth"
	endpointUrgentSale        = "/ads/urgent-sale/application"
)

// ByAddress - аналитика по нормализованному адресу.
func (c *Client) ByAddress(ctx context.Context, street, countRoom string) (domain.AnalyticsResult, error) {
	data, err := c.get(ctx, endpointAnalyticsAddress, map[string]string{
		"street":    street,
		"countRoom": countRoom,
	}, false)
	if err != nil {
		return domain.AnalyticsResult{}, err
	}
	return domain.AnalyticsResult{Data: data, NoData: data == nil}, nil
}

// ByDistrict - аналитика по району.
func (c *Client) ByDistrict(ctx context.Context, district, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	data, err := c.get(ctx, endpointAnalyticsDistrict, map[string]string{
		"district":      district,
		"countRoom":     countRoom,
		"houseMaterial": houseMaterial,
	}, false)
	if err != nil {
		return domain.AnalyticsResult{}, err
	}
	return domain.AnalyticsResult{Data: data, NoData: data == nil}, nil
}

// ByCity - аналитика по городу.
func (c *Client) ByCity(ctx context.Context, city, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	data, err := c.get(ctx, endpointAnalyticsCity, map[string]string{
		"city":          city,
		"countRoom":     countRoom,
		"houseMaterial": houseMaterial,
	}, false)
	if err != nil {
		return domain.AnalyticsResult{}, err
	}
	return domain.AnalyticsResult{Data: data, NoData: data == nil}, nil
}

// Cities - пагинированный список городов.
func (c *Client) Cities(ctx context.Context, page, size int) (domain.CityPage, error) {
	data, err := c.get(ctx, endpointCitiesAll, map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
	}, false)
	if err != nil {
		return domain.CityPage{}, err
	}
	return domain.CityPage{Data: data}, nil
}

// SuggestAddresses - автодополнение адреса. Подсказки не кэшируются:
// каждый введенный символ - новый запрос.
func (c *Client) SuggestAddresses(ctx context.Context, query string) (json.RawMessage, error) {
	return c.get(ctx, endpointSuggestAddress, map[string]string{"query": query}, true)
}

// SuggestCities - автодополнение города.
func (c *Client) SuggestCities(ctx context.Context, query string) (json.RawMessage, error) {
	return c.get(ctx, endpointSuggestCity, map[string]string{"query": query}, true)
}

// TopOptions - общий топ инвестиционных вариантов.
func (c *Client) TopOptions(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, endpointInvestTop, nil, false)
}

// TopOptionsByBudget - топ вариантов в пределах бюджета.
func (c *Client) TopOptionsByBudget(ctx context.Context, budget float64) (json.RawMessage, error) {
	return c.get(ctx, endpointInvestTopByBudget, map[string]string{
		"budget": strconv.FormatFloat(budget, 'f', -1, 64),
	}, false)
}

// ValidateAccessCode проверяет партнерский код.
// Ответ 2xx означает принятый код, 401/403 - отвергнутый; прочие статусы
// и транспортные сбои - ошибка проверки, а не отказ.
func (c *Client) ValidateAccessCode(ctx context.Context, code string) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AnalyticsAPIClient",
		"method":    "ValidateAccessCode",
	})

	// Код одноразово проверяется на апстриме, кэшировать ответ нельзя.
	_, err := c.get(ctx, endpointInvestAuth, map[string]string{"code": code}, true)
	if err == nil {
		return true, nil
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) && (upstreamErr.Status == 401 || upstreamErr.Status == 403) {
		logger.Info("Access code rejected by upstream", port.Fields{"status_code": upstreamErr.Status})
		return false, nil
	}
	return false, err
}

// SubmitUrgentSale отправляет заявку лид-формы.
func (c *Client) SubmitUrgentSale(ctx context.Context, app domain.UrgentSaleApplication) error {
	_, err := c.post(ctx, endpointUrgentSale, app)
	return err
}

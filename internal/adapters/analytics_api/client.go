package analytics_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/port"
)

// Client - клиент удаленного API аналитики/инвестиций.
// Базовый origin выбирается один раз при старте (dev или prod) и дальше
// не проверяется; кэш ответов принадлежит экземпляру, а не пакету.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *responseCache
}

// NewClient - конструктор. now передается nil вне тестов.
func NewClient(baseURL string, cacheTTL time.Duration, now func() time.Time) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		cache:      newResponseCache(cacheTTL, now),
	}
}

// buildQuery собирает параметры запроса, опуская пустые значения:
// параметр с пустой строкой не должен попадать в URL вообще.
func buildQuery(params map[string]string) url.Values {
	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, fullURL string, body io.Reader) (*http.Response, error) {
	traceID := contextkeys.TraceIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// get выполняет GET с кэшированием. Возвращает (nil, nil) на 204:
// "нет данных" - это не ошибка, и такой ответ не кэшируется.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, skipCache bool) (json.RawMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AnalyticsAPIClient",
		"endpoint":  endpoint,
	})

	values := buildQuery(params)
	key := cacheKey(endpoint, values)

	if !skipCache {
		if data, ok := c.cache.get(key); ok {
			logger.Debug("Serving response from cache", nil)
			return data, nil
		}
	}

	fullURL := c.baseURL + endpoint
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	logger.Debug("Sending request to analytics API", port.Fields{"url": fullURL})

	resp, err := c.doRequest(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		classified := classifyTransportError(err)
		logger.Error("Failed to perform request to analytics API", classified, nil)
		return nil, classified
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		logger.Info("Analytics API returned no content", nil)
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &UpstreamError{Status: resp.StatusCode, Body: string(bodyBytes)}
		logger.Error("Received error response from analytics API", apiErr, port.Fields{"status_code": resp.StatusCode})
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response body", err, nil)
		return nil, fmt.Errorf("failed to read analytics API response: %w", err)
	}

	c.cache.set(key, data)
	return data, nil
}

// post выполняет POST с JSON-телом. Кэш не участвует никогда.
func (c *Client) post(ctx context.Context, endpoint string, body interface{}) (json.RawMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AnalyticsAPIClient",
		"endpoint":  endpoint,
	})

	reqBody, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to marshal request body", err, nil)
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		classified := classifyTransportError(err)
		logger.Error("Failed to perform request to analytics API", classified, nil)
		return nil, classified
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &UpstreamError{Status: resp.StatusCode, Body: string(bodyBytes)}
		logger.Error("Received error response from analytics API", apiErr, port.Fields{"status_code": resp.StatusCode})
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response body", err, nil)
		return nil, fmt.Errorf("failed to read analytics API response: %w", err)
	}
	return data, nil
}

// ClearCache чистит кэш ответов по префиксу эндпоинта.
func (c *Client) ClearCache(endpointPrefix string) {
	c.cache.clear(endpointPrefix)
}

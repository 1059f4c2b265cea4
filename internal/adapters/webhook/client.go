package webhook_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
)

// Client - клиент внешних вебхуков: уведомление о лиде и ML-прогноз.
type Client struct {
	analyzeURL  string
	forecastURL string
	httpClient  *http.Client

	// Базовый логгер для отсоединенных задач: у них нет контекста запроса.
	logger port.LoggerPort
}

func NewClient(analyzeURL, forecastURL string, baseLogger port.LoggerPort) *Client {
	return &Client{
		analyzeURL:  analyzeURL,
		forecastURL: forecastURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      baseLogger.WithFields(port.Fields{"component": "WebhookClient"}),
	}
}

// NotifyLead шлет уведомление о заявке как явно отсоединенную задачу.
// Контракт: не блокировать и не проваливать основной поток - ошибка
// доставки логируется и отбрасывается, свой канал ошибок у задачи только лог.
func (c *Client) NotifyLead(app domain.UrgentSaleApplication) {
	if c.analyzeURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		body, err := json.Marshal(app)
		if err != nil {
			c.logger.Error("Failed to marshal lead notification", err, nil)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL, bytes.NewBuffer(body))
		if err != nil {
			c.logger.Error("Failed to create lead notification request", err, nil)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Lead notification delivery failed", port.Fields{"error": err.Error()})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("Lead notification rejected by webhook", port.Fields{"status_code": resp.StatusCode})
			return
		}
		c.logger.Debug("Lead notification delivered", nil)
	}()
}

// Forecast запрашивает прогноз цены: исторический ряд внутрь,
// горизонты 3/6/12 месяцев наружу. В отличие от NotifyLead вызов ожидаемый.
func (c *Client) Forecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "WebhookClient",
		"method":    "Forecast",
	})

	body, err := json.Marshal(req)
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("failed to marshal forecast request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.forecastURL, bytes.NewBuffer(body))
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("failed to create forecast request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("Failed to perform forecast request", err, nil)
		return domain.ForecastResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("forecast webhook returned status %d: %s", resp.StatusCode, string(bodyBytes))
		logger.Error("Forecast webhook returned error", err, port.Fields{"status_code": resp.StatusCode})
		return domain.ForecastResult{}, err
	}

	var result domain.ForecastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode forecast response", err, nil)
		return domain.ForecastResult{}, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	return result, nil
}

package scheduler

import (
	"context"
	"time"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/querycache"
)

// WarmCacheJob держит горячими общие ключи кэша запросов: первую страницу
// списка городов и инвестиционный топ. Персональные ключи не прогреваются.
type WarmCacheJob struct {
	analyticsAPI port.AnalyticsAPIPort
	investAPI    port.InvestAPIPort
	queries      *querycache.Cache
	logger       port.LoggerPort
}

func NewWarmCacheJob(
	analyticsAPI port.AnalyticsAPIPort,
	investAPI port.InvestAPIPort,
	queries *querycache.Cache,
	baseLogger port.LoggerPort,
) *WarmCacheJob {
	return &WarmCacheJob{
		analyticsAPI: analyticsAPI,
		investAPI:    investAPI,
		queries:      queries,
		logger:       baseLogger.WithFields(port.Fields{"job": "warm_cache"}),
	}
}

func (j *WarmCacheJob) Name() string { return "warm_cache" }

func (j *WarmCacheJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = contextkeys.ContextWithLogger(ctx, j.logger)

	citiesKey := querycache.Key{Domain: "analytics", Op: "cities", Params: "page=1&size=20"}
	if err := j.queries.Refresh(ctx, citiesKey, func(ctx context.Context) (interface{}, error) {
		return j.analyticsAPI.Cities(ctx, 1, 20)
	}); err != nil {
		return err
	}

	topKey := querycache.Key{Domain: "invest", Op: "top", Params: ""}
	return j.queries.Refresh(ctx, topKey, func(ctx context.Context) (interface{}, error) {
		raw, err := j.investAPI.TopOptions(ctx)
		if err != nil {
			return nil, err
		}
		valid, dropped, err := domain.ParseInvestmentOptions(raw)
		if err != nil {
			return nil, err
		}
		if len(dropped) > 0 {
			j.logger.Debug("Dropped invalid investment records", port.Fields{"count": len(dropped)})
		}
		return valid, nil
	})
}

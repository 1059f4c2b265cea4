package port

import (
	"context"
	"miniapp-service/internal/core/domain"
)

// LeadNotifierPort - контракт fire-and-forget уведомления о лиде.
// Реализация обязана не блокировать и не проваливать основной поток:
// ошибки доставки логируются и отбрасываются.
type LeadNotifierPort interface {
	NotifyLead(app domain.UrgentSaleApplication)
}

// ForecastAPIPort - контракт ML-сервиса прогноза цен.
type ForecastAPIPort interface {
	Forecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error)
}

// LeadEventQueuePort - контракт публикации события о принятой заявке
// для downstream-потребителей.
type LeadEventQueuePort interface {
	Enqueue(ctx context.Context, app domain.UrgentSaleApplication) error
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/contracts"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
)

// SubmitUrgentSaleUseCase - прием заявки лид-формы срочной продажи.
// Заявка валидируется по контракту, уходит в апстрим, после чего
// уведомление и событие очереди отправляются, не блокируя ответ.
type SubmitUrgentSaleUseCase struct {
	api      port.LeadAPIPort
	notifier port.LeadNotifierPort
	queue    port.LeadEventQueuePort
	schemas  *contracts.Registry
}

func NewSubmitUrgentSaleUseCase(
	api port.LeadAPIPort,
	notifier port.LeadNotifierPort,
	queue port.LeadEventQueuePort,
	schemas *contracts.Registry,
) *SubmitUrgentSaleUseCase {
	return &SubmitUrgentSaleUseCase{api: api, notifier: notifier, queue: queue, schemas: schemas}
}

func (uc *SubmitUrgentSaleUseCase) Execute(ctx context.Context, app domain.UrgentSaleApplication) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SubmitUrgentSale"})

	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}
	if err := uc.schemas.Validate("UrgentSaleApplication", "1.0.0", body); err != nil {
		ucLogger.Info("Application rejected by contract validation", port.Fields{"reason": err.Error()})
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := uc.api.SubmitUrgentSale(ctx, app); err != nil {
		ucLogger.Error("Failed to submit application to upstream", err, nil)
		return err
	}

	// Сопутствующие доставки не влияют на судьбу заявки: апстрим уже
	// принял ее. Уведомление отсоединено внутри нотификатора, ошибка
	// публикации события только логируется.
	uc.notifier.NotifyLead(app)
	if uc.queue != nil {
		if err := uc.queue.Enqueue(ctx, app); err != nil {
			ucLogger.Warn("Failed to enqueue lead event", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

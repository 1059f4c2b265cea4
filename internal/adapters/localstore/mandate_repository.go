package localstore_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"miniapp-service/internal/constants"
	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// MandateRepository хранит мандаты инвестора одним JSON-массивом.
// Каждая мутация переписывает коллекцию целиком, частичных обновлений нет.
type MandateRepository struct {
	store port.StorePort
}

func NewMandateRepository(store port.StorePort) *MandateRepository {
	return &MandateRepository{store: store}
}

// List возвращает мандаты в порядке добавления.
func (r *MandateRepository) List(ctx context.Context, userID uuid.UUID) []domain.Mandate {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MandateRepository",
		"user_id":   userID,
	})

	raw, found, err := r.store.Get(ctx, userID, constants.StoreKeyMandates)
	if err != nil {
		logger.Error("Failed to read mandates, returning empty list", err, nil)
		return []domain.Mandate{}
	}
	if !found {
		return []domain.Mandate{}
	}

	var mandates []domain.Mandate
	if err := json.Unmarshal(raw, &mandates); err != nil {
		logger.Warn("Corrupt mandates payload, treating as absent", port.Fields{"error": err.Error()})
		return []domain.Mandate{}
	}
	return mandates
}

// Save выполняет upsert мандата. Лимит тарифа проверяется на записи:
// обновление существующего id проходит всегда, новый мандат сверх лимита
// дает типизированный отказ - это бизнес-правило, а не ошибка приложения.
func (r *MandateRepository) Save(ctx context.Context, userID uuid.UUID, mandate domain.Mandate, tier string) domain.MandateSaveResult {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MandateRepository",
		"method":    "Save",
		"user_id":   userID,
	})

	mandates := r.List(ctx, userID)

	if mandate.ID == "" {
		mandate.ID = uuid.NewString()
	}
	if mandate.CreatedAt == 0 {
		mandate.CreatedAt = time.Now().UnixMilli()
	}

	updated := false
	for i, existing := range mandates {
		if existing.ID == mandate.ID {
			mandates[i] = mandate
			updated = true
			break
		}
	}

	if !updated {
		limit := constants.MandateLimitFree
		if tier == domain.TierPaid {
			limit = constants.MandateLimitPaid
		}
		if len(mandates) >= limit {
			logger.Info("Mandate save rejected: tier limit reached", port.Fields{
				"tier": tier, "limit": limit, "count": len(mandates),
			})
			return domain.MandateSaveResult{
				Success: false,
				Error:   fmt.Sprintf("достигнут лимит мандатов для тарифа (%d)", limit),
			}
		}
		mandates = append(mandates, mandate)
	}

	// Отказ в результате - только бизнес-правило лимита. Сбой хранилища
	// поглощается как и в остальных репозиториях: логируется, операция
	// для вызывающего считается принятой.
	raw, err := json.Marshal(mandates)
	if err != nil {
		logger.Error("Failed to marshal mandates", err, nil)
		return domain.MandateSaveResult{Success: true}
	}
	if err := r.store.Set(ctx, userID, constants.StoreKeyMandates, raw); err != nil {
		logger.Error("Failed to persist mandates", err, nil)
	}

	return domain.MandateSaveResult{Success: true}
}

// Delete удаляет мандат по id.
func (r *MandateRepository) Delete(ctx context.Context, userID uuid.UUID, mandateID string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MandateRepository",
		"method":    "Delete",
		"user_id":   userID,
	})

	mandates := r.List(ctx, userID)
	filtered := mandates[:0]
	for _, m := range mandates {
		if m.ID != mandateID {
			filtered = append(filtered, m)
		}
	}

	raw, err := json.Marshal(filtered)
	if err != nil {
		logger.Error("Failed to marshal mandates", err, nil)
		return
	}
	if err := r.store.Set(ctx, userID, constants.StoreKeyMandates, raw); err != nil {
		logger.Error("Failed to persist mandates after delete", err, nil)
	}
}

package localstore_adapter

import (
	"context"
	"encoding/json"

	"miniapp-service/internal/constants"
	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// PreferenceRepository хранит настройки интерфейса. Пока единственная
// настройка - тема оформления Mini App.
type PreferenceRepository struct {
	store port.StorePort
}

func NewPreferenceRepository(store port.StorePort) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

// GetTheme возвращает сохраненную тему. Отсутствующее или поврежденное
// значение дает тему по умолчанию.
func (r *PreferenceRepository) GetTheme(ctx context.Context, userID uuid.UUID) string {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PreferenceRepository",
		"user_id":   userID,
	})

	raw, found, err := r.store.Get(ctx, userID, constants.StoreKeyTheme)
	if err != nil {
		logger.Error("Failed to read theme preference", err, nil)
		return domain.ThemeSystem
	}
	if !found {
		return domain.ThemeSystem
	}

	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil || !domain.ValidThemes[theme] {
		logger.Warn("Corrupt theme preference, falling back to default", nil)
		return domain.ThemeSystem
	}
	return theme
}

// SetTheme запоминает тему. Сбой хранилища логируется и поглощается.
func (r *PreferenceRepository) SetTheme(ctx context.Context, userID uuid.UUID, theme string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PreferenceRepository",
		"user_id":   userID,
	})

	raw, err := json.Marshal(theme)
	if err != nil {
		logger.Error("Failed to marshal theme preference", err, nil)
		return
	}
	if err := r.store.Set(ctx, userID, constants.StoreKeyTheme, raw); err != nil {
		logger.Error("Failed to persist theme preference", err, nil)
	}
}

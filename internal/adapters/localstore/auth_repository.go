package localstore_adapter

import (
	"context"
	"encoding/json"
	"time"

	"miniapp-service/internal/constants"
	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// AuthStateRepository хранит проверенный партнерский код доступа.
// Срок действия проверяется лениво при чтении, просроченное состояние
// очищается тем же чтением.
type AuthStateRepository struct {
	store port.StorePort
}

func NewAuthStateRepository(store port.StorePort) *AuthStateRepository {
	return &AuthStateRepository{store: store}
}

// Save запоминает код с текущим временем.
func (r *AuthStateRepository) Save(ctx context.Context, userID uuid.UUID, code string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AuthStateRepository",
		"user_id":   userID,
	})

	state := domain.InvestAuthState{
		Code:      code,
		Timestamp: time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(state)
	if err != nil {
		logger.Error("Failed to marshal auth state", err, nil)
		return
	}
	if err := r.store.Set(ctx, userID, constants.StoreKeyInvestAuth, raw); err != nil {
		logger.Error("Failed to persist auth state", err, nil)
	}
}

// IsAuthorized сообщает, действует ли сохраненный код.
func (r *AuthStateRepository) IsAuthorized(ctx context.Context, userID uuid.UUID) bool {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AuthStateRepository",
		"user_id":   userID,
	})

	raw, found, err := r.store.Get(ctx, userID, constants.StoreKeyInvestAuth)
	if err != nil {
		logger.Error("Failed to read auth state", err, nil)
		return false
	}
	if !found {
		return false
	}

	var state domain.InvestAuthState
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.Warn("Corrupt auth state payload, clearing", port.Fields{"error": err.Error()})
		r.Clear(ctx, userID)
		return false
	}

	age := time.Since(time.UnixMilli(state.Timestamp))
	if age >= constants.InvestAuthTTL {
		logger.Info("Auth state expired, clearing", port.Fields{"age_hours": int(age.Hours())})
		r.Clear(ctx, userID)
		return false
	}
	return true
}

// Clear удаляет состояние авторизации.
func (r *AuthStateRepository) Clear(ctx context.Context, userID uuid.UUID) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AuthStateRepository",
		"user_id":   userID,
	})
	if err := r.store.Remove(ctx, userID, constants.StoreKeyInvestAuth); err != nil {
		logger.Error("Failed to clear auth state", err, nil)
	}
}

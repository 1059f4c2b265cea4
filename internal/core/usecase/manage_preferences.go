package usecase

import (
	"context"
	"fmt"

	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// ManagePreferencesUseCase - настройки интерфейса пользователя.
type ManagePreferencesUseCase struct {
	repo port.PreferenceRepositoryPort
}

func NewManagePreferencesUseCase(repo port.PreferenceRepositoryPort) *ManagePreferencesUseCase {
	return &ManagePreferencesUseCase{repo: repo}
}

func (uc *ManagePreferencesUseCase) GetTheme(ctx context.Context, userID uuid.UUID) string {
	return uc.repo.GetTheme(ctx, userID)
}

func (uc *ManagePreferencesUseCase) SetTheme(ctx context.Context, userID uuid.UUID, theme string) error {
	if !domain.ValidThemes[theme] {
		return fmt.Errorf("%w: unknown theme %q", domain.ErrValidation, theme)
	}
	uc.repo.SetTheme(ctx, userID, theme)
	return nil
}

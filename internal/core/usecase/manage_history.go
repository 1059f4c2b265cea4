package usecase

import (
	"context"

	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// ManageHistoryUseCase - операции над историей поиска пользователя.
// Бизнес-правила (дедупликация, лимит записей) живут в репозитории,
// здесь только тонкая обертка для REST-слоя.
type ManageHistoryUseCase struct {
	repo port.HistoryRepositoryPort
}

func NewManageHistoryUseCase(repo port.HistoryRepositoryPort) *ManageHistoryUseCase {
	return &ManageHistoryUseCase{repo: repo}
}

func (uc *ManageHistoryUseCase) List(ctx context.Context, userID uuid.UUID) []domain.SearchHistoryItem {
	return uc.repo.List(ctx, userID)
}

func (uc *ManageHistoryUseCase) Add(ctx context.Context, userID uuid.UUID, address, countRoom string) {
	uc.repo.Add(ctx, userID, domain.NormalizeAddress(address), countRoom)
}

func (uc *ManageHistoryUseCase) Remove(ctx context.Context, userID uuid.UUID, itemID string) {
	uc.repo.Remove(ctx, userID, itemID)
}

func (uc *ManageHistoryUseCase) Clear(ctx context.Context, userID uuid.UUID) {
	uc.repo.Clear(ctx, userID)
}

package usecases_port

import (
	"context"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
)

// ManageHistoryUseCasePort - операции над историей поиска.
type ManageHistoryUseCasePort interface {
	List(ctx context.Context, userID uuid.UUID) []domain.SearchHistoryItem
	Add(ctx context.Context, userID uuid.UUID, address, countRoom string)
	Remove(ctx context.Context, userID uuid.UUID, itemID string)
	Clear(ctx context.Context, userID uuid.UUID)
}

// ManageMandatesUseCasePort - операции над мандатами инвестора.
type ManageMandatesUseCasePort interface {
	List(ctx context.Context, userID uuid.UUID) []domain.Mandate
	Save(ctx context.Context, userID uuid.UUID, mandate domain.Mandate, tier string) (domain.MandateSaveResult, error)
	Delete(ctx context.Context, userID uuid.UUID, mandateID string)
}

// ManagePreferencesUseCasePort - операции над настройками интерфейса.
type ManagePreferencesUseCasePort interface {
	GetTheme(ctx context.Context, userID uuid.UUID) string
	SetTheme(ctx context.Context, userID uuid.UUID, theme string) error
}

// ManageDealsUseCasePort - операции над сохраненными сделками и треками.
type ManageDealsUseCasePort interface {
	ListDeals(ctx context.Context, userID uuid.UUID) []domain.SavedDeal
	SaveDeal(ctx context.Context, userID uuid.UUID, option domain.InvestmentOption) domain.SavedDeal
	RemoveDeal(ctx context.Context, userID uuid.UUID, dealID string)
	ListTracks(ctx context.Context, userID uuid.UUID) []domain.DealTrack
	UpsertTrack(ctx context.Context, userID uuid.UUID, dealID, status, notes string) (domain.DealTrack, error)
}

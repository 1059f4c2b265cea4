package usecase

import (
	"context"
	"fmt"
	"time"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// ManageDealsUseCase - сохраненные сделки и их статусные треки.
type ManageDealsUseCase struct {
	repo port.DealRepositoryPort
}

func NewManageDealsUseCase(repo port.DealRepositoryPort) *ManageDealsUseCase {
	return &ManageDealsUseCase{repo: repo}
}

func (uc *ManageDealsUseCase) ListDeals(ctx context.Context, userID uuid.UUID) []domain.SavedDeal {
	return uc.repo.ListDeals(ctx, userID)
}

// SaveDeal сохраняет инвестиционный вариант. Идентификатор выводится из
// самого варианта, поэтому повторное сохранение того же объявления
// обновляет существующую запись, а не плодит дубликаты.
func (uc *ManageDealsUseCase) SaveDeal(ctx context.Context, userID uuid.UUID, option domain.InvestmentOption) domain.SavedDeal {
	logger := contextkeys.LoggerFromContext(ctx)

	deal := domain.SavedDeal{
		InvestmentOption: option,
		ID:               domain.DeriveDealID(option),
		SavedAt:          time.Now().UnixMilli(),
	}
	uc.repo.SaveDeal(ctx, userID, deal)

	logger.WithFields(port.Fields{
		"use_case": "ManageDeals",
		"user_id":  userID,
	}).Debug("Deal saved", port.Fields{"deal_id": deal.ID})
	return deal
}

// RemoveDeal убирает сделку из сохраненных. Трек сделки при этом
// не трогается: его жизненный цикл независим.
func (uc *ManageDealsUseCase) RemoveDeal(ctx context.Context, userID uuid.UUID, dealID string) {
	uc.repo.RemoveDeal(ctx, userID, dealID)
}

func (uc *ManageDealsUseCase) ListTracks(ctx context.Context, userID uuid.UUID) []domain.DealTrack {
	return uc.repo.ListTracks(ctx, userID)
}

func (uc *ManageDealsUseCase) UpsertTrack(ctx context.Context, userID uuid.UUID, dealID, status, notes string) (domain.DealTrack, error) {
	if dealID == "" {
		return domain.DealTrack{}, fmt.Errorf("%w: dealId is required", domain.ErrValidation)
	}
	if !domain.ValidDealStatuses[status] {
		return domain.DealTrack{}, fmt.Errorf("%w: unknown deal status %q", domain.ErrValidation, status)
	}

	track := uc.repo.UpsertTrack(ctx, userID, domain.DealTrack{
		DealID: dealID,
		Status: status,
		Notes:  notes,
	})
	return track, nil
}

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

// DealRepository хранит сохраненные сделки и их статусные треки.
// Две независимые коллекции под разными ключами: удаление сделки
// не каскадирует на трек.
type DealRepository struct {
	store port.StorePort
}

func NewDealRepository(store port.StorePort) *DealRepository {
	return &DealRepository{store: store}
}

// ListDeals возвращает сохраненные сделки в порядке добавления.
func (r *DealRepository) ListDeals(ctx context.Context, userID uuid.UUID) []domain.SavedDeal {
	var deals []domain.SavedDeal
	r.read(ctx, userID, constants.StoreKeySavedDeals, &deals)
	if deals == nil {
		deals = []domain.SavedDeal{}
	}
	return deals
}

// SaveDeal выполняет upsert по id: повторное сохранение перезаписывает
// снимок на месте, не меняя позицию в списке.
func (r *DealRepository) SaveDeal(ctx context.Context, userID uuid.UUID, deal domain.SavedDeal) {
	deals := r.ListDeals(ctx, userID)

	updated := false
	for i, existing := range deals {
		if existing.ID == deal.ID {
			deals[i] = deal
			updated = true
			break
		}
	}
	if !updated {
		deals = append(deals, deal)
	}

	r.write(ctx, userID, constants.StoreKeySavedDeals, deals)
}

// RemoveDeal удаляет сделку. Трек по этому dealId остается жить.
func (r *DealRepository) RemoveDeal(ctx context.Context, userID uuid.UUID, dealID string) {
	deals := r.ListDeals(ctx, userID)
	filtered := deals[:0]
	for _, d := range deals {
		if d.ID != dealID {
			filtered = append(filtered, d)
		}
	}
	r.write(ctx, userID, constants.StoreKeySavedDeals, filtered)
}

// ListTracks возвращает статусные треки.
func (r *DealRepository) ListTracks(ctx context.Context, userID uuid.UUID) []domain.DealTrack {
	var tracks []domain.DealTrack
	r.read(ctx, userID, constants.StoreKeyDealTracks, &tracks)
	if tracks == nil {
		tracks = []domain.DealTrack{}
	}
	return tracks
}

// UpsertTrack обновляет трек сделки или создает его.
// Инвариант: не более одного трека на dealId. CreatedAt сохраняется,
// UpdatedAt переставляется на каждое изменение.
func (r *DealRepository) UpsertTrack(ctx context.Context, userID uuid.UUID, track domain.DealTrack) domain.DealTrack {
	tracks := r.ListTracks(ctx, userID)
	now := time.Now().UnixMilli()

	found := false
	for i, existing := range tracks {
		if existing.DealID == track.DealID {
			track.CreatedAt = existing.CreatedAt
			track.UpdatedAt = now
			tracks[i] = track
			found = true
			break
		}
	}
	if !found {
		track.CreatedAt = now
		track.UpdatedAt = now
		tracks = append(tracks, track)
	}

	r.write(ctx, userID, constants.StoreKeyDealTracks, tracks)
	return track
}

func (r *DealRepository) read(ctx context.Context, userID uuid.UUID, key string, dest interface{}) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DealRepository",
		"user_id":   userID,
		"store_key": key,
	})

	raw, found, err := r.store.Get(ctx, userID, key)
	if err != nil {
		logger.Error("Failed to read collection, returning empty", err, nil)
		return
	}
	if !found {
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("Corrupt collection payload, treating as absent", port.Fields{"error": err.Error()})
	}
}

func (r *DealRepository) write(ctx context.Context, userID uuid.UUID, key string, value interface{}) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DealRepository",
		"user_id":   userID,
		"store_key": key,
	})

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to marshal collection", err, nil)
		return
	}
	if err := r.store.Set(ctx, userID, key, raw); err != nil {
		logger.Error("Failed to persist collection", err, nil)
	}
}

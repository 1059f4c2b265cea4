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

// HistoryRepository хранит историю поиска пользователя одним JSON-массивом
// под фиксированным ключом. Запись идет через debounce: поиск может
// добавлять записи часто, а терять допустимо только промежуточные значения.
type HistoryRepository struct {
	store     port.StorePort
	debounced port.DebouncedStorePort
}

func NewHistoryRepository(store port.StorePort, debounced port.DebouncedStorePort) *HistoryRepository {
	return &HistoryRepository{store: store, debounced: debounced}
}

// List возвращает историю, новые записи первыми.
// Перед чтением сбрасывается отложенная запись, иначе чтение сразу после
// Add вернет устаревший список.
func (r *HistoryRepository) List(ctx context.Context, userID uuid.UUID) []domain.SearchHistoryItem {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "HistoryRepository",
		"user_id":   userID,
	})

	if err := r.debounced.Flush(ctx, userID, constants.StoreKeySearchHistory); err != nil {
		logger.Error("Failed to flush pending history write", err, nil)
	}

	raw, found, err := r.store.Get(ctx, userID, constants.StoreKeySearchHistory)
	if err != nil {
		// Хранилище никогда не роняет вызывающего: сбой = пустая история.
		logger.Error("Failed to read search history, returning empty list", err, nil)
		return []domain.SearchHistoryItem{}
	}
	if !found {
		return []domain.SearchHistoryItem{}
	}

	var items []domain.SearchHistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Поврежденные данные трактуем как отсутствующие.
		logger.Warn("Corrupt search history payload, treating as absent", port.Fields{"error": err.Error()})
		return []domain.SearchHistoryItem{}
	}
	return items
}

// Add вставляет запись в начало истории. Дубликат по паре (address, countRoom)
// переезжает в начало с новым временем вместо создания второй записи.
// Список молча усекается до десяти последних записей.
func (r *HistoryRepository) Add(ctx context.Context, userID uuid.UUID, address, countRoom string) {
	items := r.List(ctx, userID)

	filtered := make([]domain.SearchHistoryItem, 0, len(items)+1)
	for _, item := range items {
		if item.Address == address && item.CountRoom == countRoom {
			continue
		}
		filtered = append(filtered, item)
	}

	// id не выводится из времени: два добавления в одну миллисекунду
	// дали бы одинаковые id и сломали бы точечное удаление.
	now := time.Now().UnixMilli()
	newItem := domain.SearchHistoryItem{
		ID:        uuid.NewString(),
		Address:   address,
		CountRoom: countRoom,
		Timestamp: now,
	}

	items = append([]domain.SearchHistoryItem{newItem}, filtered...)
	if len(items) > constants.HistoryMaxItems {
		items = items[:constants.HistoryMaxItems]
	}

	r.persist(ctx, userID, items)
}

// Remove удаляет одну запись по id.
func (r *HistoryRepository) Remove(ctx context.Context, userID uuid.UUID, itemID string) {
	items := r.List(ctx, userID)

	filtered := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	r.persist(ctx, userID, filtered)
}

// Clear удаляет историю целиком.
func (r *HistoryRepository) Clear(ctx context.Context, userID uuid.UUID) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "HistoryRepository",
		"user_id":   userID,
	})
	if err := r.store.Remove(ctx, userID, constants.StoreKeySearchHistory); err != nil {
		logger.Error("Failed to clear search history", err, nil)
	}
}

func (r *HistoryRepository) persist(ctx context.Context, userID uuid.UUID, items []domain.SearchHistoryItem) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "HistoryRepository",
		"user_id":   userID,
	})

	raw, err := json.Marshal(items)
	if err != nil {
		logger.Error("Failed to marshal search history", err, nil)
		return
	}
	r.debounced.Set(ctx, userID, constants.StoreKeySearchHistory, raw)
}

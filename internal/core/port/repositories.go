package port

import (
	"context"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
)

// HistoryRepositoryPort - контракт хранилища истории поиска.
// Ошибки хранилища поглощаются реализацией: чтение при сбое возвращает
// пустой список, запись просто логируется. История не должна ломать поиск.
type HistoryRepositoryPort interface {
	List(ctx context.Context, userID uuid.UUID) []domain.SearchHistoryItem
	Add(ctx context.Context, userID uuid.UUID, address, countRoom string)
	Remove(ctx context.Context, userID uuid.UUID, itemID string)
	Clear(ctx context.Context, userID uuid.UUID)
}

// MandateRepositoryPort - контракт хранилища мандатов инвестора.
type MandateRepositoryPort interface {
	List(ctx context.Context, userID uuid.UUID) []domain.Mandate

	// Save выполняет upsert по id. Единственное место, где бизнес-правило
	// возвращает типизированный отказ: превышение лимита тарифа.
	Save(ctx context.Context, userID uuid.UUID, mandate domain.Mandate, tier string) domain.MandateSaveResult

	Delete(ctx context.Context, userID uuid.UUID, mandateID string)
}

// DealRepositoryPort - контракт хранилища сохраненных сделок и их треков.
type DealRepositoryPort interface {
	ListDeals(ctx context.Context, userID uuid.UUID) []domain.SavedDeal
	SaveDeal(ctx context.Context, userID uuid.UUID, deal domain.SavedDeal)
	RemoveDeal(ctx context.Context, userID uuid.UUID, dealID string)

	ListTracks(ctx context.Context, userID uuid.UUID) []domain.DealTrack
	UpsertTrack(ctx context.Context, userID uuid.UUID, track domain.DealTrack) domain.DealTrack
}

// PreferenceRepositoryPort - контракт хранилища настроек интерфейса.
type PreferenceRepositoryPort interface {
	// GetTheme возвращает сохраненную тему или "system", если ее нет.
	GetTheme(ctx context.Context, userID uuid.UUID) string
	SetTheme(ctx context.Context, userID uuid.UUID, theme string)
}

// AuthStateRepositoryPort - контракт хранилища авторизации инвестора.
type AuthStateRepositoryPort interface {
	// Save запоминает проверенный код с текущим временем.
	Save(ctx context.Context, userID uuid.UUID, code string)

	// IsAuthorized лениво проверяет срок действия; просроченное состояние
	// очищается при этом же чтении.
	IsAuthorized(ctx context.Context, userID uuid.UUID) bool

	Clear(ctx context.Context, userID uuid.UUID)
}

package localstore_adapter

import (
	"context"
	"fmt"
	"testing"

	"miniapp-service/internal/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryRepo() (*HistoryRepository, *memStore) {
	store := newMemStore()
	return NewHistoryRepository(store, &directDebounce{store: store}), store
}

func TestHistoryRepository_AddAndList(t *testing.T) {
	repo, _ := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")
	repo.Add(ctx, userID, "Мурманск д 5 Беринга", "1")

	items := repo.List(ctx, userID)
	require.Len(t, items, 2)

	// Новые записи первыми.
	assert.Equal(t, "Мурманск д 5 Беринга", items[0].Address)
	assert.Equal(t, "Мурманск д 10 Ленина", items[1].Address)
	assert.NotEmpty(t, items[0].ID)
	assert.NotZero(t, items[0].Timestamp)
}

func TestHistoryRepository_DuplicateMovesToFront(t *testing.T) {
	repo, _ := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")
	repo.Add(ctx, userID, "Мурманск д 5 Беринга", "1")
	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")

	items := repo.List(ctx, userID)
	require.Len(t, items, 2)
	assert.Equal(t, "Мурманск д 10 Ленина", items[0].Address)

	// Тот же адрес с другой комнатностью - отдельная запись.
	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "3")
	assert.Len(t, repo.List(ctx, userID), 3)
}

func TestHistoryRepository_CapsAtLimit(t *testing.T) {
	repo, _ := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < constants.HistoryMaxItems+5; i++ {
		repo.Add(ctx, userID, fmt.Sprintf("Мурманск д %d Ленина", i), "1")
	}

	items := repo.List(ctx, userID)
	require.Len(t, items, constants.HistoryMaxItems)

	// Остаются самые свежие.
	assert.Equal(t, fmt.Sprintf("Мурманск д %d Ленина", constants.HistoryMaxItems+4), items[0].Address)
}

func TestHistoryRepository_RemoveAndClear(t *testing.T) {
	repo, _ := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")
	repo.Add(ctx, userID, "Мурманск д 5 Беринга", "1")

	items := repo.List(ctx, userID)
	require.Len(t, items, 2)

	repo.Remove(ctx, userID, items[0].ID)
	remaining := repo.List(ctx, userID)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Мурманск д 10 Ленина", remaining[0].Address)

	repo.Clear(ctx, userID)
	assert.Empty(t, repo.List(ctx, userID))
}

func TestHistoryRepository_StorageFailureYieldsEmptyList(t *testing.T) {
	repo, store := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	store.failReads = true
	assert.Empty(t, repo.List(ctx, userID))

	// Сбой записи тоже не паникует и не возвращается вызывающему.
	store.failReads = false
	store.failWrites = true
	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")
}

func TestHistoryRepository_CorruptPayloadTreatedAsEmpty(t *testing.T) {
	repo, store := newHistoryRepo()
	ctx := context.Background()
	userID := uuid.New()

	store.put(userID, constants.StoreKeySearchHistory, []byte("{broken json"))
	assert.Empty(t, repo.List(ctx, userID))

	// Новая запись перезаписывает мусор.
	repo.Add(ctx, userID, "Мурманск д 10 Ленина", "2")
	assert.Len(t, repo.List(ctx, userID), 1)
}

package localstore_adapter

import (
	"context"
	"testing"

	"miniapp-service/internal/constants"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMandateRepository_SaveAssignsIDAndCreatedAt(t *testing.T) {
	repo := NewMandateRepository(newMemStore())
	ctx := context.Background()
	userID := uuid.New()

	result := repo.Save(ctx, userID, domain.Mandate{Name: "Аренда у моря"}, domain.TierFree)
	require.True(t, result.Success)

	mandates := repo.List(ctx, userID)
	require.Len(t, mandates, 1)
	assert.NotEmpty(t, mandates[0].ID)
	assert.NotZero(t, mandates[0].CreatedAt)
}

func TestMandateRepository_FreeTierLimit(t *testing.T) {
	repo := NewMandateRepository(newMemStore())
	ctx := context.Background()
	userID := uuid.New()

	result := repo.Save(ctx, userID, domain.Mandate{Name: "Первый"}, domain.TierFree)
	require.True(t, result.Success)

	// Второй мандат на бесплатном тарифе отклоняется типизированно.
	result = repo.Save(ctx, userID, domain.Mandate{Name: "Второй"}, domain.TierFree)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Len(t, repo.List(ctx, userID), 1)
}

func TestMandateRepository_PaidTierLimit(t *testing.T) {
	repo := NewMandateRepository(newMemStore())
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < constants.MandateLimitPaid; i++ {
		result := repo.Save(ctx, userID, domain.Mandate{Name: "Мандат"}, domain.TierPaid)
		require.True(t, result.Success)
	}

	result := repo.Save(ctx, userID, domain.Mandate{Name: "Сверх лимита"}, domain.TierPaid)
	assert.False(t, result.Success)
	assert.Len(t, repo.List(ctx, userID), constants.MandateLimitPaid)
}

func TestMandateRepository_UpdateByIDAlwaysAllowed(t *testing.T) {
	repo := NewMandateRepository(newMemStore())
	ctx := context.Background()
	userID := uuid.New()

	result := repo.Save(ctx, userID, domain.Mandate{Name: "Исходный"}, domain.TierFree)
	require.True(t, result.Success)
	existing := repo.List(ctx, userID)[0]

	// Лимит уже исчерпан, но обновление существующего id проходит.
	existing.Name = "Переименованный"
	result = repo.Save(ctx, userID, existing, domain.TierFree)
	require.True(t, result.Success)

	mandates := repo.List(ctx, userID)
	require.Len(t, mandates, 1)
	assert.Equal(t, "Переименованный", mandates[0].Name)
	assert.Equal(t, existing.ID, mandates[0].ID)
}

func TestMandateRepository_Delete(t *testing.T) {
	repo := NewMandateRepository(newMemStore())
	ctx := context.Background()
	userID := uuid.New()

	require.True(t, repo.Save(ctx, userID, domain.Mandate{Name: "Удаляемый"}, domain.TierFree).Success)
	id := repo.List(ctx, userID)[0].ID

	repo.Delete(ctx, userID, id)
	assert.Empty(t, repo.List(ctx, userID))

	// Удаление несуществующего id - no-op.
	repo.Delete(ctx, userID, "missing")
}

func TestMandateRepository_StorageFailureAbsorbed(t *testing.T) {
	store := newMemStore()
	repo := NewMandateRepository(store)
	ctx := context.Background()
	userID := uuid.New()

	// Сбой хранилища поглощается: отказ с success=false зарезервирован
	// за лимитом тарифа и не используется для технических ошибок.
	store.failWrites = true
	result := repo.Save(ctx, userID, domain.Mandate{Name: "Не сохранится"}, domain.TierFree)
	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
}

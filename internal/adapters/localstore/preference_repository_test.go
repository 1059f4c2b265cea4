package localstore_adapter

import (
	"context"
	"testing"

	"miniapp-service/internal/constants"
	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPreferenceRepository_ThemeRoundTrip(t *testing.T) {
	store := newMemStore()
	repo := NewPreferenceRepository(store)
	ctx := context.Background()
	userID := uuid.New()

	// Без сохраненного значения действует тема по умолчанию.
	assert.Equal(t, domain.ThemeSystem, repo.GetTheme(ctx, userID))

	repo.SetTheme(ctx, userID, domain.ThemeDark)
	assert.Equal(t, domain.ThemeDark, repo.GetTheme(ctx, userID))

	// Настройка у каждого пользователя своя.
	assert.Equal(t, domain.ThemeSystem, repo.GetTheme(ctx, uuid.New()))
}

func TestPreferenceRepository_CorruptOrFailedReadFallsBack(t *testing.T) {
	store := newMemStore()
	repo := NewPreferenceRepository(store)
	ctx := context.Background()
	userID := uuid.New()

	store.put(userID, constants.StoreKeyTheme, []byte(`{"not":"a string"}`))
	assert.Equal(t, domain.ThemeSystem, repo.GetTheme(ctx, userID))

	store.failReads = true
	assert.Equal(t, domain.ThemeSystem, repo.GetTheme(ctx, userID))

	// Сбой записи не роняет вызывающего.
	store.failWrites = true
	repo.SetTheme(ctx, userID, domain.ThemeLight)
}

package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"miniapp-service/internal/core/domain"
	"miniapp-service/pkg/querycache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsAPI struct {
	lastStreet    string
	lastCountRoom string
	calls         int
	result        domain.AnalyticsResult
	err           error
}

func (f *fakeAnalyticsAPI) ByAddress(ctx context.Context, street, countRoom string) (domain.AnalyticsResult, error) {
	f.calls++
	f.lastStreet = street
	f.lastCountRoom = countRoom
	return f.result, f.err
}

func (f *fakeAnalyticsAPI) ByDistrict(ctx context.Context, district, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	return f.result, f.err
}

func (f *fakeAnalyticsAPI) ByCity(ctx context.Context, city, countRoom, houseMaterial string) (domain.AnalyticsResult, error) {
	return f.result, f.err
}

func (f *fakeAnalyticsAPI) Cities(ctx context.Context, page, size int) (domain.CityPage, error) {
	return domain.CityPage{}, f.err
}

func (f *fakeAnalyticsAPI) SuggestAddresses(ctx context.Context, query string) (json.RawMessage, error) {
	return nil, f.err
}

func (f *fakeAnalyticsAPI) SuggestCities(ctx context.Context, query string) (json.RawMessage, error) {
	return nil, f.err
}

type fakeHistoryRepo struct {
	added []struct {
		Address   string
		CountRoom string
	}
}

func (f *fakeHistoryRepo) List(ctx context.Context, userID uuid.UUID) []domain.SearchHistoryItem {
	return nil
}

func (f *fakeHistoryRepo) Add(ctx context.Context, userID uuid.UUID, address, countRoom string) {
	f.added = append(f.added, struct {
		Address   string
		CountRoom string
	}{address, countRoom})
}

func (f *fakeHistoryRepo) Remove(ctx context.Context, userID uuid.UUID, itemID string) {}
func (f *fakeHistoryRepo) Clear(ctx context.Context, userID uuid.UUID)                 {}

func TestSearchByAddress_NormalizesAndRecordsHistory(t *testing.T) {
	api := &fakeAnalyticsAPI{result: domain.AnalyticsResult{Data: json.RawMessage(`{"avg":1}`)}}
	history := &fakeHistoryRepo{}
	uc := NewSearchByAddressUseCase(api, history, querycache.New(querycache.Config{}))

	result, err := uc.Execute(context.Background(), uuid.New(), "Мурманск Ленина 10", "2")
	require.NoError(t, err)
	assert.False(t, result.NoData)

	assert.Equal(t, "Мурманск д 10 Ленина", api.lastStreet)
	assert.Equal(t, "2", api.lastCountRoom)

	require.Len(t, history.added, 1)
	assert.Equal(t, "Мурманск д 10 Ленина", history.added[0].Address)
}

func TestSearchByAddress_WholeCitySentinelOmitsCountRoom(t *testing.T) {
	api := &fakeAnalyticsAPI{result: domain.AnalyticsResult{Data: json.RawMessage(`{}`)}}
	uc := NewSearchByAddressUseCase(api, &fakeHistoryRepo{}, querycache.New(querycache.Config{}))

	_, err := uc.Execute(context.Background(), uuid.New(), "Ленина 10", "Весь город")
	require.NoError(t, err)
	assert.Equal(t, "", api.lastCountRoom)
}

func TestSearchByAddress_NoDataStillRecordedInHistory(t *testing.T) {
	api := &fakeAnalyticsAPI{result: domain.AnalyticsResult{NoData: true}}
	history := &fakeHistoryRepo{}
	uc := NewSearchByAddressUseCase(api, history, querycache.New(querycache.Config{}))

	result, err := uc.Execute(context.Background(), uuid.New(), "Ленина 10", "1")
	require.NoError(t, err)
	assert.True(t, result.NoData)
	assert.Len(t, history.added, 1)
}

func TestSearchByAddress_SecondCallServedFromCache(t *testing.T) {
	api := &fakeAnalyticsAPI{result: domain.AnalyticsResult{Data: json.RawMessage(`{}`)}}
	history := &fakeHistoryRepo{}
	uc := NewSearchByAddressUseCase(api, history, querycache.New(querycache.Config{}))

	ctx := context.Background()
	userID := uuid.New()
	_, err := uc.Execute(ctx, userID, "Ленина 10", "2")
	require.NoError(t, err)
	_, err = uc.Execute(ctx, userID, "Ленина 10", "2")
	require.NoError(t, err)

	// Второй запрос тот же ключ: апстрим вызван один раз,
	// история пополнена оба раза.
	assert.Equal(t, 1, api.calls)
	assert.Len(t, history.added, 2)
}

package analytics_api_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ByAddress_OmitsEmptyParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"avgPrice": 100}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Minute, nil)
	result, err := client.ByAddress(context.Background(), "Мурманск д 10 Ленина", "")
	require.NoError(t, err)

	assert.False(t, result.NoData)
	assert.Equal(t, "Мурманск д 10 Ленина", gotQuery.Get("street"))
	// Пустой countRoom не попадает в URL вообще.
	_, present := gotQuery["countRoom"]
	assert.False(t, present)
}

func TestClient_ByAddress_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Minute, nil)
	result, err := client.ByAddress(context.Background(), "Мурманск д 1 Ленина", "2")

	// 204 - это "нет данных", а не ошибка.
	require.NoError(t, err)
	assert.True(t, result.NoData)
	assert.Nil(t, result.Data)
}

func TestClient_ByAddress_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Minute, nil)
	_, err := client.ByAddress(context.Background(), "Мурманск д 1 Ленина", "")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "boom")
}

func TestClient_Get_CachesWithinTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"avgPrice": 100}`))
	}))
	defer srv.Close()

	now := time.Now()
	client := NewClient(srv.URL, 5*time.Minute, func() time.Time { return now })

	ctx := context.Background()
	_, err := client.ByAddress(ctx, "Мурманск д 10 Ленина", "2")
	require.NoError(t, err)
	_, err = client.ByAddress(ctx, "Мурманск д 10 Ленина", "2")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// Другие параметры - другой ключ.
	_, err = client.ByAddress(ctx, "Мурманск д 10 Ленина", "3")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// После TTL запись считается протухшей и запрос уходит заново.
	now = now.Add(5*time.Minute + time.Second)
	_, err = client.ByAddress(ctx, "Мурманск д 10 Ленина", "2")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClient_Suggestions_SkipCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`["Ленина", "Ленинградская"]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Minute, nil)

	ctx := context.Background()
	_, err := client.SuggestAddresses(ctx, "Лен")
	require.NoError(t, err)
	_, err = client.SuggestAddresses(ctx, "Лен")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_ValidateAccessCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") == "PARTNER2024" {
			w.Write([]byte(`{"ok": true}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Minute, nil)
	ctx := context.Background()

	ok, err := client.ValidateAccessCode(ctx, "PARTNER2024")
	require.NoError(t, err)
	assert.True(t, ok)

	// Отказ апстрима в коде - это false без ошибки.
	ok, err = client.ValidateAccessCode(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_TransportErrorClassified(t *testing.T) {
	// Адрес с несуществующим DNS-именем.
	client := NewClient("http://definitely-not-resolvable.invalid", time.Minute, nil)
	_, err := client.ByAddress(context.Background(), "Мурманск д 1 Ленина", "")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, []string{TransportOffline, TransportNetwork}, transportErr.Kind)
	assert.NotEmpty(t, transportErr.Message)
}

func TestResponseCache_KeyIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("street", "Ленина")
	a.Set("countRoom", "2")

	b := url.Values{}
	b.Set("countRoom", "2")
	b.Set("street", "Ленина")

	assert.Equal(t, cacheKey("/ads/analytic/v1.1", a), cacheKey("/ads/analytic/v1.1", b))
}

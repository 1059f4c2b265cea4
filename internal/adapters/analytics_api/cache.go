package analytics_api_client

import (
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"
)

// cacheEntry - одна запись кэша ответов.
type cacheEntry struct {
	data      json.RawMessage
	fetchedAt time.Time
}

// responseCache - кэш успешных GET-ответов с TTL.
// Запись валидна, пока now - fetchedAt < ttl; просроченные записи инертны
// до перезаписи, активного вытеснения нет (pull-based проверка на чтении).
// Кэш принадлежит экземпляру клиента, часы инжектируются ради тестов.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	if now == nil {
		now = time.Now
	}
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// cacheKey строит ключ из эндпоинта и отсортированных параметров.
// url.Values.Encode сортирует по ключу, поэтому порядок добавления
// параметров на ключ не влияет.
func cacheKey(endpoint string, params url.Values) string {
	return endpoint + "?" + params.Encode()
}

func (c *responseCache) get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.data, true
}

func (c *responseCache) set(key string, data json.RawMessage) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
}

// clear удаляет записи по префиксу эндпоинта; пустой префикс чистит все.
func (c *responseCache) clear(endpointPrefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if endpointPrefix == "" {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for k := range c.entries {
		if strings.HasPrefix(k, endpointPrefix) {
			delete(c.entries, k)
		}
	}
}

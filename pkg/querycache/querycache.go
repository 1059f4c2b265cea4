// Package querycache реализует декларативный кэш запросов со
// stale-while-revalidate семантикой: свежие данные отдаются из кэша,
// устаревшие отдаются сразу с фоновым обновлением, промахи загружаются
// с повторами и экспоненциальной задержкой.
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger - минимальный контракт логирования для pkg-уровня,
// чтобы не тянуть сюда порт ядра.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{})            {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})             {}
func (noopLogger) Error(err error, msg string, keysAndValues ...interface{}) {}

// Key - структурированный ключ запроса: домен + операция + параметры.
type Key struct {
	Domain string
	Op     string
	Params string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s?%s", k.Domain, k.Op, k.Params)
}

// FetchFunc загружает данные для ключа.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Config - настройки кэша. Часы и sleep инжектируются ради тестов.
type Config struct {
	// FreshFor - окно свежести записи. После него запись отдается
	// как устаревшая и запускается фоновое обновление.
	FreshFor time.Duration

	// MaxRetries - число повторов чтения после первой неудачной попытки.
	MaxRetries int

	// MutationRetries - число повторов мутации. Мутации не идемпотентны
	// в общем случае, поэтому повторов заметно меньше, чем у чтений.
	MutationRetries int

	// BackoffBase и BackoffCap задают экспоненциальную задержку повторов.
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// RevalidateTimeout ограничивает фоновое обновление.
	RevalidateTimeout time.Duration

	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger Logger
}

func (c *Config) applyDefaults() {
	if c.FreshFor <= 0 {
		c.FreshFor = 5 * time.Minute
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MutationRetries <= 0 {
		c.MutationRetries = 1
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = 30 * time.Second
	}
	if c.RevalidateTimeout <= 0 {
		c.RevalidateTimeout = 30 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
}

type entry struct {
	data      interface{}
	fetchedAt time.Time
}

// Cache - кэш запросов. Безопасен для конкурентного использования.
type Cache struct {
	cfg Config

	mu       sync.Mutex
	entries  map[string]entry
	inflight map[string]bool
}

// New создает кэш запросов.
func New(cfg Config) *Cache {
	cfg.applyDefaults()
	return &Cache{
		cfg:      cfg,
		entries:  make(map[string]entry),
		inflight: make(map[string]bool),
	}
}

// Get возвращает данные по ключу согласно политике:
//   - запись моложе FreshFor отдается без сетевого вызова;
//   - устаревшая запись отдается сразу, обновление уходит в фон
//     (не более одного фонового обновления на ключ);
//   - при промахе выполняется загрузка с повторами.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (interface{}, error) {
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	now := c.cfg.Now()
	if ok && now.Sub(e.fetchedAt) < c.cfg.FreshFor {
		c.mu.Unlock()
		c.cfg.Logger.Debug("query cache hit", "key", k)
		return e.data, nil
	}
	if ok {
		// Stale-while-revalidate: отдаем что есть, обновляем в фоне.
		if !c.inflight[k] {
			c.inflight[k] = true
			go c.revalidate(key, fetch)
		}
		c.mu.Unlock()
		c.cfg.Logger.Debug("query cache stale hit, revalidating", "key", k)
		return e.data, nil
	}
	c.mu.Unlock()

	data, err := c.fetchWithRetries(ctx, fetch)
	if err != nil {
		return nil, err
	}
	c.store(k, data)
	return data, nil
}

// Refresh принудительно перезагружает ключ, минуя окно свежести.
// Это явная замена событиям refocus/reconnect браузера.
func (c *Cache) Refresh(ctx context.Context, key Key, fetch FetchFunc) error {
	data, err := c.fetchWithRetries(ctx, fetch)
	if err != nil {
		return err
	}
	c.store(key.String(), data)
	return nil
}

// Invalidate удаляет все записи, чей ключ начинается с префикса.
// Возвращает число удаленных записей.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Mutate выполняет мутацию с MutationRetries повторами и при успехе
// инвалидирует связанные ключи, чтобы последующие чтения пересчитались.
func (c *Cache) Mutate(ctx context.Context, op func(ctx context.Context) error, invalidatePrefixes ...string) error {
	err := op(ctx)
	for attempt := 0; err != nil && attempt < c.cfg.MutationRetries; attempt++ {
		c.cfg.Logger.Warn("mutation failed, retrying", "attempt", attempt+1, "error", err.Error())
		if serr := c.cfg.Sleep(ctx, c.cfg.BackoffBase); serr != nil {
			return serr
		}
		err = op(ctx)
	}
	if err != nil {
		return err
	}

	for _, prefix := range invalidatePrefixes {
		n := c.Invalidate(prefix)
		c.cfg.Logger.Debug("invalidated query keys after mutation", "prefix", prefix, "count", n)
	}
	return nil
}

func (c *Cache) store(k string, data interface{}) {
	c.mu.Lock()
	c.entries[k] = entry{data: data, fetchedAt: c.cfg.Now()}
	c.mu.Unlock()
}

func (c *Cache) revalidate(key Key, fetch FetchFunc) {
	k := key.String()
	defer func() {
		c.mu.Lock()
		delete(c.inflight, k)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RevalidateTimeout)
	defer cancel()

	data, err := c.fetchWithRetries(ctx, fetch)
	if err != nil {
		// Фоновая неудача не трогает прежнее значение: оно останется
		// до следующей успешной загрузки.
		c.cfg.Logger.Error(err, "background revalidation failed", "key", k)
		return
	}
	c.store(k, data)
}

func (c *Cache) fetchWithRetries(ctx context.Context, fetch FetchFunc) (interface{}, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BackoffBase << (attempt - 1)
			if delay > c.cfg.BackoffCap {
				delay = c.cfg.BackoffCap
			}
			if err := c.cfg.Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		c.cfg.Logger.Warn("fetch attempt failed", "attempt", attempt+1, "error", err.Error())
	}
	return nil, lastErr
}

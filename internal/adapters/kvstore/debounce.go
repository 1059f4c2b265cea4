package kvstore_adapter

import (
	"context"
	"sync"
	"time"

	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

// pendingKey идентифицирует отложенную запись.
type pendingKey struct {
	userID uuid.UUID
	key    string
}

// pendingWrite - состояние Pending машины Idle -> Pending -> Flushed.
type pendingWrite struct {
	value []byte
	timer *time.Timer
}

// DebouncedWriter коалесцирует серию записей одного ключа в одну запись
// последнего значения. Машина состояний на каждую пару (user, key) явная:
// Idle (нет отложенной записи) -> Pending (значение + дедлайн) -> Flushed.
// Ранние значения внутри окна молча отбрасываются (last-write-wins).
type DebouncedWriter struct {
	store  port.StorePort
	window time.Duration
	logger port.LoggerPort

	mu      sync.Mutex
	pending map[pendingKey]*pendingWrite
}

// NewDebouncedWriter - конструктор. window <= 0 означает запись без задержки.
func NewDebouncedWriter(store port.StorePort, window time.Duration, logger port.LoggerPort) *DebouncedWriter {
	return &DebouncedWriter{
		store:   store,
		window:  window,
		logger:  logger.WithFields(port.Fields{"component": "DebouncedWriter"}),
		pending: make(map[pendingKey]*pendingWrite),
	}
}

// Set переводит ключ в состояние Pending с новым значением и дедлайном.
// Повторный Set в окне заменяет значение и сдвигает дедлайн.
func (w *DebouncedWriter) Set(ctx context.Context, userID uuid.UUID, key string, value []byte) {
	if w.window <= 0 {
		w.write(userID, key, value)
		return
	}

	pk := pendingKey{userID: userID, key: key}

	w.mu.Lock()
	defer w.mu.Unlock()

	if pw, ok := w.pending[pk]; ok {
		pw.value = value
		pw.timer.Reset(w.window)
		return
	}

	pw := &pendingWrite{value: value}
	pw.timer = time.AfterFunc(w.window, func() {
		w.flushByTimer(pk)
	})
	w.pending[pk] = pw
}

// Flush принудительно сбрасывает отложенную запись ключа.
// Вызывается перед критичным чтением. Если отложенной записи нет - no-op.
func (w *DebouncedWriter) Flush(ctx context.Context, userID uuid.UUID, key string) error {
	pk := pendingKey{userID: userID, key: key}

	w.mu.Lock()
	pw, ok := w.pending[pk]
	if ok {
		pw.timer.Stop()
		delete(w.pending, pk)
	}
	w.mu.Unlock()

	if !ok {
		return nil
	}
	return w.store.Set(ctx, userID, key, pw.value)
}

// flushByTimer - переход Pending -> Flushed по дедлайну.
func (w *DebouncedWriter) flushByTimer(pk pendingKey) {
	w.mu.Lock()
	pw, ok := w.pending[pk]
	if ok {
		delete(w.pending, pk)
	}
	w.mu.Unlock()

	if !ok {
		// Ключ уже сброшен явным Flush.
		return
	}
	w.write(pk.userID, pk.key, pw.value)
}

func (w *DebouncedWriter) write(userID uuid.UUID, key string, value []byte) {
	// Запись идет вне запроса, поэтому контекст свой, с ограничением.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.store.Set(ctx, userID, key, value); err != nil {
		// Хранилище не должно ронять вызывающего: ошибка только в лог.
		w.logger.Error("Debounced write failed", err, port.Fields{
			"user_id":   userID,
			"store_key": key,
		})
	}
}

package port

import (
	"context"

	"github.com/google/uuid"
)

// StorePort - контракт низкоуровневого key-value хранилища пользователя.
// Это аналог localStorage исходного Mini App: значения - сырой JSON под
// фиксированными ключами, никакой типизации на этом уровне нет.
type StorePort interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, userID uuid.UUID, key string) ([]byte, bool, error)

	// Set записывает значение целиком (whole-value rewrite).
	Set(ctx context.Context, userID uuid.UUID, key string, value []byte) error

	// Remove удаляет значение. Удаление отсутствующего ключа не ошибка.
	Remove(ctx context.Context, userID uuid.UUID, key string) error
}

// DebouncedStorePort - вариант записи с коалесцированием.
// Серия Set в пределах окна схлопывается в одну запись последнего значения
// (last-write-wins); Flush принудительно сбрасывает отложенную запись
// перед критичным чтением.
type DebouncedStorePort interface {
	Set(ctx context.Context, userID uuid.UUID, key string, value []byte)
	Flush(ctx context.Context, userID uuid.UUID, key string) error
}

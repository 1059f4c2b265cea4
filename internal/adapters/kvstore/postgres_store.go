package kvstore_adapter

import (
	"context"
	"errors"
	"fmt"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore - реализация StorePort поверх таблицы user_store.
// Одна строка = один ключ пользователя, значение - JSON целиком,
// запись всегда перезаписывает значение полностью (как localStorage).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore - конструктор.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// Get возвращает значение ключа и признак его наличия.
func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID, key string) ([]byte, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresStore",
		"method":    "Get",
		"user_id":   userID,
		"store_key": key,
	})

	query := `SELECT value FROM user_store WHERE user_id = $1 AND store_key = $2`

	var value []byte
	err := s.pool.QueryRow(ctx, query, userID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		logger.Error("Failed to read store value", err, port.Fields{"query": query})
		return nil, false, fmt.Errorf("failed to read store value: %w", err)
	}
	return value, true, nil
}

// Set перезаписывает значение ключа (upsert).
func (s *PostgresStore) Set(ctx context.Context, userID uuid.UUID, key string, value []byte) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresStore",
		"method":    "Set",
		"user_id":   userID,
		"store_key": key,
	})

	query := `
		INSERT INTO user_store (user_id, store_key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, store_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, userID, key, value); err != nil {
		logger.Error("Failed to write store value", err, port.Fields{"query": query})
		return fmt.Errorf("failed to write store value: %w", err)
	}

	logger.Debug("Store value written.", port.Fields{"value_bytes": len(value)})
	return nil
}

// Remove удаляет ключ. Отсутствие ключа не считается ошибкой.
func (s *PostgresStore) Remove(ctx context.Context, userID uuid.UUID, key string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresStore",
		"method":    "Remove",
		"user_id":   userID,
		"store_key": key,
	})

	query := `DELETE FROM user_store WHERE user_id = $1 AND store_key = $2`

	cmdTag, err := s.pool.Exec(ctx, query, userID, key)
	if err != nil {
		logger.Error("Failed to remove store value", err, port.Fields{"query": query})
		return fmt.Errorf("failed to remove store value: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		logger.Debug("Attempted to remove a key that did not exist.", nil)
	}
	return nil
}

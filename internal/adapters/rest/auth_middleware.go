package rest

import (
	"context"
	"net/http"

	"miniapp-service/internal/core/domain"

	"github.com/google/uuid"
)

// Кастомный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	userIDKey   = contextKey("userID")
	userTierKey = contextKey("userTier")
)

// AuthMiddleware извлекает идентификацию пользователя из заголовков.
// X-User-ID проставляет API Gateway после проверки initData Telegram,
// X-User-Tier приходит оттуда же; отсутствующий тариф считается free.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
			return
		}

		tier := r.Header.Get("X-User-Tier")
		if tier != domain.TierPaid {
			tier = domain.TierFree
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userTierKey, tier)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext достает userID, положенный AuthMiddleware.
func userFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func tierFromContext(ctx context.Context) string {
	tier, ok := ctx.Value(userTierKey).(string)
	if !ok {
		return domain.TierFree
	}
	return tier
}

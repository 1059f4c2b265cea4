package constants

import "time"

// Политики кэширования и лимиты коллекций.
const (
	// ResponseCacheTTL - время жизни записи в кэше HTTP-клиента.
	ResponseCacheTTL = 5 * time.Minute

	// HistoryMaxItems - максимум записей истории поиска на пользователя.
	HistoryMaxItems = 10

	// HistoryDebounceWindow - окно коалесцирования записей истории.
	HistoryDebounceWindow = 300 * time.Millisecond

	// Лимиты мандатов по тарифу.
	MandateLimitFree = 1
	MandateLimitPaid = 5

	// InvestAuthTTL - срок действия партнерского кода доступа.
	InvestAuthTTL = 7 * 24 * time.Hour

	// Политика повторов слоя оркестрации запросов.
	QueryMaxRetries      = 3
	QueryBackoffBase     = time.Second
	QueryBackoffCap      = 30 * time.Second
	MutationMaxRetries   = 1
)

// Сигнальные значения "вся территория" для countRoom.
// Они приходят от фронтенда как есть и не должны уходить в запрос.
const (
	CountRoomWholeCity     = "Весь город"
	CountRoomWholeDistrict = "Весь район"
)

// DefaultCity - город по умолчанию при нормализации адреса.
const DefaultCity = "Мурманск"

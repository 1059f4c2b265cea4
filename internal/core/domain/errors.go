package domain

import "errors"

// Ошибки ядра. Транспортные и серверные ошибки апстрима живут в адаптере
// HTTP-клиента; здесь только то, что осмысленно для бизнес-логики.
var (
	// ErrNotAuthorized - у пользователя нет действующего кода доступа
	// к инвестиционному разделу.
	ErrNotAuthorized = errors.New("investor authorization required")

	// ErrInvalidAuthCode - апстрим отверг партнерский код.
	ErrInvalidAuthCode = errors.New("invalid partner access code")

	// ErrValidation - входные данные не прошли проверку до сетевого вызова.
	ErrValidation = errors.New("validation failed")
)

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// InvestmentOption - инвестиционный вариант, полученный от удаленного API.
// AnalyticsResponse хранится как есть: его структуру контролирует бэкенд
// аналитики, мы только проверяем наличие.
type InvestmentOption struct {
	FullAddress       string          `json:"fullAddress"`
	Square            float64         `json:"square"`
	CountRoom         string          `json:"countRoom"`
	Price             float64         `json:"price"`
	URL               string          `json:"url"`
	DifferencePercent float64         `json:"differencePercent"`
	AnalyticsResponse json.RawMessage `json:"analyticsResponse,omitempty"`
}

// OptionValidation - результат проверки одной записи:
// либо валидный вариант, либо причина отбраковки.
type OptionValidation struct {
	Option InvestmentOption
	Valid  bool
	Reason string
}

// ValidateOption проверяет одну запись из ответа API.
// Запись отбраковывается, только если у нее нет адреса И нет ни цены,
// ни аналитики: запись с одной лишь аналитикой еще есть чем отрисовать.
func ValidateOption(opt InvestmentOption) OptionValidation {
	hasAddress := strings.TrimSpace(opt.FullAddress) != ""
	hasPrice := opt.Price > 0
	hasAnalytics := len(opt.AnalyticsResponse) > 0 && string(opt.AnalyticsResponse) != "null"

	if !hasAddress && !hasPrice && !hasAnalytics {
		return OptionValidation{Option: opt, Valid: false, Reason: "no address, price or analytics"}
	}
	return OptionValidation{Option: opt, Valid: true}
}

// ParseInvestmentOptions разбирает сырой JSON-массив вариантов.
// Невалидный JSON - ошибка; невалидные записи внутри массива не ошибка,
// они возвращаются отдельно, чтобы вызывающий мог залогировать их количество.
func ParseInvestmentOptions(raw json.RawMessage) (valid []InvestmentOption, dropped []OptionValidation, err error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	var items []InvestmentOption
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, fmt.Errorf("investment options payload is not a valid JSON array: %w", err)
	}

	for _, item := range items {
		check := ValidateOption(item)
		if !check.Valid {
			dropped = append(dropped, check)
			continue
		}
		valid = append(valid, item)
	}
	return valid, dropped, nil
}

// DeriveDealID строит стабильный идентификатор сделки.
// Правило совместимо с исходным приложением: URL объявления, а при его
// отсутствии - адрес плюс цена. Уникальность адрес+цена не гарантирована,
// два разных объявления с одинаковой ценой и похожим адресом могут
// коллизировать; правило сохранено намеренно ради совместимости
// сохраненных данных.
func DeriveDealID(opt InvestmentOption) string {
	source := opt.URL
	if strings.TrimSpace(source) == "" {
		source = fmt.Sprintf("%s|%.0f", strings.ToLower(strings.TrimSpace(opt.FullAddress)), opt.Price)
	}
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:16])
}

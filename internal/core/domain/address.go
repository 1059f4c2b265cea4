package domain

import (
	"regexp"
	"strings"

	"miniapp-service/internal/constants"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// knownCities - города Мурманской области, которые фронтенд может прислать
// первым словом адреса. Если города нет, подставляется город по умолчанию.
var knownCities = []string{
	"Мурманск",
	"Апатиты",
	"Кировск",
	"Мончегорск",
	"Оленегорск",
	"Североморск",
	"Кандалакша",
	"Полярный",
	"Ковдор",
	"Заполярный",
	"Никель",
	"Кола",
	"Снежногорск",
	"Гаджиево",
	"Полярные Зори",
}

// Номер дома: цифры, опционально буква корпуса и/или дробь ("10", "10а", "10/2").
var houseNumberRe = regexp.MustCompile(`^\d+[а-яa-z]?(/\d+)?$`)

// Маркеры номера дома, которые пользователь мог ввести сам.
var houseMarkers = map[string]bool{"д": true, "д.": true, "дом": true}

var cityCaser = cases.Title(language.Russian)

// NormalizeCity приводит название города к каноническому виду
// ("апатиты" -> "Апатиты"). Пустой ввод дает город по умолчанию.
func NormalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return constants.DefaultCity
	}
	return cityCaser.String(strings.ToLower(city))
}

// NormalizeAddress приводит пользовательский ввод к формату, который ожидает
// эндпоинт аналитики: "<Город> д <номер> <улица>".
//
//   - если первым словом не указан известный город, подставляется Мурманск;
//   - номер дома (последний числовой токен) переносится вперед с маркером "д";
//   - функция идемпотентна: нормализация уже нормализованного адреса
//     возвращает ту же строку.
func NormalizeAddress(input string) string {
	tokens := strings.Fields(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return constants.DefaultCity
	}

	// 1. Определяем город. Сначала пробуем два первых слова
	// (есть двусловные города вроде "Полярные Зори"), затем одно.
	city := constants.DefaultCity
	if len(tokens) >= 2 {
		twoWord := cityCaser.String(strings.ToLower(tokens[0] + " " + tokens[1]))
		for _, known := range knownCities {
			if twoWord == known {
				city = known
				tokens = tokens[2:]
				break
			}
		}
	}
	if city == constants.DefaultCity && len(tokens) > 0 {
		first := cityCaser.String(strings.ToLower(tokens[0]))
		for _, known := range knownCities {
			if first == known {
				city = known
				tokens = tokens[1:]
				break
			}
		}
	}

	// 2. Ищем номер дома - последний подходящий токен.
	// Маркер "д"/"дом" перед ним тоже убираем из остатка.
	houseNumber := ""
	houseIdx := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if houseNumberRe.MatchString(strings.ToLower(tokens[i])) {
			houseNumber = strings.ToLower(tokens[i])
			houseIdx = i
			break
		}
	}

	var streetParts []string
	for i, tok := range tokens {
		if i == houseIdx {
			continue
		}
		if i == houseIdx-1 && houseMarkers[strings.ToLower(tok)] {
			continue
		}
		streetParts = append(streetParts, tok)
	}

	parts := []string{city}
	if houseNumber != "" {
		parts = append(parts, "д", houseNumber)
	}
	parts = append(parts, streetParts...)
	return strings.Join(parts, " ")
}

// IsWholeAreaSentinel сообщает, является ли значение countRoom сигналом
// "вся территория". Такое значение не отправляется в запрос вообще.
func IsWholeAreaSentinel(countRoom string) bool {
	trimmed := strings.TrimSpace(countRoom)
	return trimmed == constants.CountRoomWholeCity || trimmed == constants.CountRoomWholeDistrict
}

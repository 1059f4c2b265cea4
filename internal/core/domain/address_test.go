package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "street with trailing house number",
			input: "Мурманск Ленина 10",
			want:  "Мурманск д 10 Ленина",
		},
		{
			name:  "city inferred when missing",
			input: "Ленина 10",
			want:  "Мурманск д 10 Ленина",
		},
		{
			name:  "explicit house marker is consumed",
			input: "Апатиты ул Ленина д 5",
			want:  "Апатиты д 5 ул Ленина",
		},
		{
			name:  "lowercase city is recognized",
			input: "апатиты Ферсмана 12",
			want:  "Апатиты д 12 Ферсмана",
		},
		{
			name:  "two word city",
			input: "Полярные Зори Сивко 3",
			want:  "Полярные Зори д 3 Сивко",
		},
		{
			name:  "house number with building letter",
			input: "Мурманск Полярные Зори 21а",
			want:  "Мурманск д 21а Полярные Зори",
		},
		{
			name:  "house number with slash",
			input: "Кола Советская 10/2",
			want:  "Кола д 10/2 Советская",
		},
		{
			name:  "no house number at all",
			input: "Мурманск Ленина",
			want:  "Мурманск Ленина",
		},
		{
			name:  "empty input falls back to default city",
			input: "   ",
			want:  "Мурманск",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAddress(tt.input)
			assert.Equal(t, tt.want, got)

			// Повторная нормализация не должна менять строку.
			assert.Equal(t, got, NormalizeAddress(got))
		})
	}
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "Апатиты", NormalizeCity("апатиты"))
	assert.Equal(t, "Апатиты", NormalizeCity("  АПАТИТЫ  "))
	assert.Equal(t, "Мурманск", NormalizeCity(""))
}

func TestIsWholeAreaSentinel(t *testing.T) {
	assert.True(t, IsWholeAreaSentinel("Весь город"))
	assert.True(t, IsWholeAreaSentinel("  Весь район "))
	assert.False(t, IsWholeAreaSentinel("1"))
	assert.False(t, IsWholeAreaSentinel(""))
}

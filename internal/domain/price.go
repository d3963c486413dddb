package domain

import (
	"fmt"
	"math"
)

// MaxPrice наибольшая цена, которую вмещает колонка NUMERIC(12,2)
const MaxPrice = 9_999_999_999.99

// Допустимая погрешность float64 при переводе в центы
const centsTolerance = 1e-3

// PriceCents цена в центах
func PriceCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// NormalizePrice проверяет цену и приводит её к точности хранения (два знака после запятой)
func NormalizePrice(field string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, NewValidationError(field, "must be a non-negative number")
	}
	if v > MaxPrice {
		return 0, NewValidationError(field, fmt.Sprintf("must be at most %.2f", MaxPrice))
	}
	cents := v * 100
	if math.Abs(cents-math.Round(cents)) > centsTolerance {
		return 0, NewValidationError(field, "must have at most 2 decimal places")
	}
	return float64(PriceCents(v)) / 100, nil
}

package reports

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
)

// splitCodes découpe la liste de codes produits concaténée par la
// base ("A1, B2, C3") : trim de chaque code, entrées vides ignorées.
func splitCodes(joined sql.NullString) []string {
	if !joined.Valid || joined.String == "" {
		return []string{}
	}
	parts := strings.Split(joined.String, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// intMagnitude : valeur tronquée vers zéro puis valeur absolue,
// NULL → 0. Les taux de vente sont rendus en unités entières.
func intMagnitude(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return math.Abs(math.Trunc(v.Float64))
}

// variancePercent calcule (current-ideal)/ideal*100, formaté avec
// une décimale ("50.0%"). Division gardée : ideal <= 0 → "0.0%".
func variancePercent(current, ideal float64) string {
	pct := 0.0
	if ideal > 0 {
		pct = (current - ideal) / ideal * 100
	}
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// nonNegativeCount : NULL → 0, valeurs négatives écrêtées à 0.
func nonNegativeCount(v sql.NullInt64) int {
	if !v.Valid || v.Int64 < 0 {
		return 0
	}
	return int(v.Int64)
}

func stringOr(v sql.NullString, fallback string) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return fallback
}

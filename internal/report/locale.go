package report

import (
	"strings"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// Supported column label locales.
const (
	LocaleFR = "fr"
	LocaleEN = "en"
)

// DefaultLocale matches the labels of the reference dataset.
const DefaultLocale = LocaleFR

type labels struct {
	pessimistic, optimistic          string
	productID, productName, nutri, sn string
}

var localeLabels = map[string]labels{
	LocaleFR: {
		pessimistic: "Classe_Pessimiste",
		optimistic:  "Classe_Optimiste",
		productID:   "product_id",
		productName: "product_name",
		nutri:       "nutriscore_grade",
		sn:          "supernutri_grade",
	},
	LocaleEN: {
		pessimistic: "Pessimistic",
		optimistic:  "Optimistic",
		productID:   "product_id",
		productName: "product_name",
		nutri:       "nutriscore_grade",
		sn:          "supernutri_grade",
	},
}

// NormalizeLocale lowercases and falls back to DefaultLocale for unknown
// locales. Region suffixes ("en-GB", "fr_CA") are ignored.
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if _, ok := localeLabels[l]; ok {
		return l
	}
	return DefaultLocale
}

// ColumnLabel names the column holding one procedure at one lambda, e.g.
// "Classe_Pessimiste_λ=0.6".
func ColumnLabel(locale string, p electre.Procedure, lambda float64) string {
	lb := localeLabels[NormalizeLocale(locale)]
	name := lb.pessimistic
	if p == electre.Optimistic {
		name = lb.optimistic
	}
	return name + "_" + lambdaKey(lambda)
}

// Columns returns the full ordered header of a report table.
func Columns(locale string, lambdas []float64) []string {
	lb := localeLabels[NormalizeLocale(locale)]
	cols := []string{lb.productID, lb.productName, lb.nutri}
	for _, l := range lambdas {
		cols = append(cols,
			ColumnLabel(locale, electre.Pessimistic, l),
			ColumnLabel(locale, electre.Optimistic, l),
		)
	}
	return append(cols, lb.sn)
}

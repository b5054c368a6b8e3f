package product

import (
	"context"
	"strings"
	"unicode"

	"ongsys-sync/core/erpnext"

	"go.uber.org/zap"
)

// originCountries is the controlled vocabulary for the source "origem"
// field. An empty mapping means the item carries no country of origin.
var originCountries = map[string]string{
	"nacional":   "Brazil",
	"brasil":     "Brazil",
	"brasileiro": "Brazil",
	"importado":  "",
	"":           "",
}

// CountrySet is the set of Country docnames known to the destination.
type CountrySet map[string]struct{}

// Has reports whether the destination knows the country name.
func (s CountrySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// FetchCountries loads the destination Country list once per run. A
// failure degrades to an empty set: unmatched origins are then simply
// not synced rather than rejected by the destination later.
func FetchCountries(ctx context.Context, dst erpnext.Client, log *zap.Logger) CountrySet {
	docs, err := dst.List(ctx, "Country", erpnext.ListOptions{
		Fields: []string{"name"},
		Limit:  999,
	})
	if err != nil {
		log.Warn("failed to load country list, country of origin disabled", zap.Error(err))
		return CountrySet{}
	}
	set := make(CountrySet, len(docs))
	for _, doc := range docs {
		if name := doc.Name(); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// MapCountry resolves a source origin value to a destination Country
// name, or "" when the item should carry no country. Vocabulary entries
// win; unknown values match the destination set literally and then with
// the first letter capitalized.
func MapCountry(origin string, countries CountrySet) string {
	key := strings.ToLower(strings.TrimSpace(origin))
	if mapped, ok := originCountries[key]; ok {
		if mapped != "" && countries.Has(mapped) {
			return mapped
		}
		return ""
	}

	candidate := strings.TrimSpace(origin)
	if countries.Has(candidate) {
		return candidate
	}
	if capitalized := capitalize(candidate); countries.Has(capitalized) {
		return capitalized
	}
	return ""
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

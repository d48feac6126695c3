package domain

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// IngredientTotal is the summed amount of one (name, unit) group.
type IngredientTotal struct {
	Name   string
	Unit   string
	Amount int64
}

// ShoppingItem is one rendered row of the shopping report.
type ShoppingItem struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Amount int64  `json:"amount"`
}

// ShoppingReport is the deduplicated ingredient list across a user's cart.
type ShoppingReport struct {
	Username    string         `json:"username"`
	GeneratedAt time.Time      `json:"generated_at"`
	Items       []ShoppingItem `json:"items"`
}

// BuildShoppingReport merges totals by (name, unit), sorts by name and numbers
// the rows from 1. The result does not depend on the order of totals.
func BuildShoppingReport(username string, generatedAt time.Time, totals []IngredientTotal) *ShoppingReport {
	type key struct{ name, unit string }
	sums := make(map[key]int64, len(totals))
	for _, t := range totals {
		sums[key{t.Name, t.Unit}] += t.Amount
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].unit < keys[j].unit
	})

	items := make([]ShoppingItem, 0, len(keys))
	for i, k := range keys {
		items = append(items, ShoppingItem{
			Index:  i + 1,
			Name:   Capitalize(k.name),
			Unit:   "(" + k.unit + ")",
			Amount: sums[k],
		})
	}

	return &ShoppingReport{
		Username:    username,
		GeneratedAt: generatedAt,
		Items:       items,
	}
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// file: internal/marketplace/search.go
// version: 1.0.0
// guid: 5f2a9c04-b7e3-4d61-9a08-3c6e1d4b7f92

package marketplace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FilterModels narrows an already fetched listing for the search overlay.
// Matches are ranked by edit distance on "name provider id"; an empty term
// returns the models unchanged.
func FilterModels(models []Model, term string) []Model {
	term = strings.TrimSpace(term)
	if term == "" {
		return models
	}

	targets := make([]string, len(models))
	for i, m := range models {
		targets[i] = strings.Join([]string{m.Name, m.Provider, m.ID}, " ")
	}

	ranks := fuzzy.RankFindFold(term, targets)
	sort.Stable(ranks)

	out := make([]Model, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, models[r.OriginalIndex])
	}
	return out
}

// FormatPrice renders amount in the given ISO 4217 currency, e.g. "$ 0.20".
// Unknown codes fall back to "0.20 XYZ".
func FormatPrice(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

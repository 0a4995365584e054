package advisor

import (
	"strings"

	"stockduel/internal/domain"
)

var watchlist = func() map[string]bool {
	set := make(map[string]bool, len(domain.SeedSymbols))
	for _, s := range domain.SeedSymbols {
		set[s.Symbol] = true
	}
	return set
}()

// ExtractSymbols scans the message for watchlist tickers. Returns
// deduplicated uppercase symbols in order of first mention.
func ExtractSymbols(text string) []string {
	upper := strings.ToUpper(text)
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})

	seen := make(map[string]bool)
	var result []string
	for _, w := range words {
		if watchlist[w] && !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
	}
	return result
}

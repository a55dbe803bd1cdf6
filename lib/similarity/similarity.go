// Package similarity provides the pluggable string-scoring strategies used
// to filter noisy registry search results. Scores range from 0 to 100.
package similarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

type Scorer func(a, b string) float64

// DefaultScorer matches the strict near-exact filtering policy used when
// disambiguating a known company name against a result page.
const DefaultScorer = "wratio"

var registry = map[string]Scorer{
	"ratio":            Ratio,
	"partial_ratio":    PartialRatio,
	"token_sort_ratio": TokenSortRatio,
	"token_set_ratio":  TokenSetRatio,
	"jaro_winkler":     JaroWinkler,
	"wratio":           WRatio,
}

// ForName resolves a scorer by its registry name. Unknown names are an
// error so that a bad configuration is rejected before any network call.
func ForName(name string) (Scorer, error) {
	scorer, ok := registry[name]
	if !ok {
		known := make([]string, 0, len(registry))
		for k := range registry {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf(
			"unknown similarity scorer %q, known scorers: %s",
			name, strings.Join(known, ", "),
		)
	}
	return scorer, nil
}

// Ratio is the plain edit-distance similarity of the two strings.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 100
	}
	dist := matchr.Levenshtein(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// PartialRatio slides the shorter string across the longer one and
// returns the best window score.
func PartialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return Ratio(a, b)
	}
	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		score := Ratio(string(shorter), window)
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// TokenSortRatio compares the strings with their tokens in sorted order,
// making the score insensitive to word order.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the token intersection against each side's
// remainder, the usual construction for names that share a core but
// differ in suffix noise.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := Ratio(base, withA)
	if score := Ratio(base, withB); score > best {
		best = score
	}
	if score := Ratio(withA, withB); score > best {
		best = score
	}
	return best
}

func JaroWinkler(a, b string) float64 {
	return 100 * matchr.JaroWinkler(a, b, false)
}

// WRatio is the weighted combination used as the default policy: the
// plain ratio wins for near-identical strings, the token measures are
// discounted, and the partial ratio only participates when the lengths
// diverge enough for a substring match to be meaningful.
func WRatio(a, b string) float64 {
	best := Ratio(a, b)
	if score := 0.95 * TokenSortRatio(a, b); score > best {
		best = score
	}
	if score := 0.95 * TokenSetRatio(a, b); score > best {
		best = score
	}

	la, lb := len([]rune(a)), len([]rune(b))
	shorter, longer := la, lb
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if shorter > 0 && float64(longer)/float64(shorter) > 1.5 {
		if score := 0.9 * PartialRatio(a, b); score > best {
			best = score
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

package parse

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"src.mcfn.dev/pkg/diag"
)

const maxSuggestions = 3

// Returns up to maxSuggestions names close to text, best first.
func suggest(text string, names []string) []string {
	if text == "" || len(names) == 0 {
		return nil
	}
	ranks := fuzzy.RankFindFold(text, names)
	seen := make(map[string]bool)
	for _, rk := range ranks {
		seen[rk.Target] = true
	}
	for _, name := range names {
		if !seen[name] {
			if d := fuzzy.LevenshteinDistance(text, name); d <= 2 {
				ranks = append(ranks, fuzzy.Rank{Source: text, Target: name, Distance: d})
				seen[name] = true
			}
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
	var out []string
	for _, rk := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, rk.Target)
	}
	return out
}

func unknownNameError(r diag.Ranging, what, text string, names []string) *Error {
	if s := suggest(text, names); len(s) > 0 {
		return syntaxError(r, "unknown %s %q, did you mean %s?", what, text, strings.Join(s, ", "))
	}
	return syntaxError(r, "unknown %s %q", what, text)
}

// Package fuzzy provides typo-tolerant text matching over in-memory candidate
// lists. Scores are normalized to [0,1] where 0 is an exact match; candidates
// at or below Threshold survive. For a fixed query and candidate list the
// result order is stable.
package fuzzy

import (
	"sort"
	"strings"
)

// Threshold is the normalized score cutoff: tolerates minor typos and partial
// substrings, rejects unrelated text.
const Threshold = 0.2

type Match struct {
	Index int
	Score float64
}

// Rank scores every candidate against query and returns the matches at or
// below Threshold, best first. Ties keep the original candidate order.
func Rank(query string, candidates []string) []Match {
	q := normalize(query)
	if q == "" {
		return nil
	}
	var out []Match
	for i, c := range candidates {
		s := score(q, normalize(c))
		if s <= Threshold {
			out = append(out, Match{Index: i, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// Filter returns the subset of list whose key fuzzy-matches query, ranked.
func Filter[T any](query string, list []T, key func(T) string) []T {
	keys := make([]string, len(list))
	for i, v := range list {
		keys[i] = key(v)
	}
	matches := Rank(query, keys)
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, list[m.Index])
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// score is the minimal edit distance between the query and any window of the
// candidate close to the query's length, normalized by the query length.
// Windowing makes a short query match inside a longer field the way a
// substring would.
func score(q, c string) float64 {
	if c == "" {
		return 1
	}
	if strings.Contains(c, q) {
		return 0
	}
	qr := []rune(q)
	cr := []rune(c)
	best := distance(qr, cr)
	for w := len(qr) - 1; w <= len(qr)+1; w++ {
		if w < 1 || w > len(cr) {
			continue
		}
		for i := 0; i+w <= len(cr); i++ {
			if d := distance(qr, cr[i:i+w]); d < best {
				best = d
			}
		}
	}
	s := float64(best) / float64(len(qr))
	if s > 1 {
		s = 1
	}
	return s
}

// distance is the optimal string alignment distance: insertions, deletions,
// substitutions and adjacent transpositions all count as one edit, so a
// swapped-letter typo stays within the threshold.
func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := prev2[j-2] + 1; t < curr[j] { // transposition
					curr[j] = t
				}
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

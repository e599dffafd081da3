// Package fuzzy ranks object identifiers against a typed query.
//
// Every query rune must appear in the candidate, in order. Candidates that
// match are scored: runs of adjacent matches, matches at the start of a
// word and a match at the very start score higher; gaps and a late first
// match score lower. Shorter candidates win ties.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Weights tunes the scoring.
type Weights struct {
	Base       int
	Run        int // per match adjacent to the previous one
	WordStart  int // per match at a word start
	Leading    int // first match at index 0
	Prefix     int // the query is a prefix of the candidate
	Gap        int // per skipped rune between first and last match
	Late       int // per rune before the first match
	ShortLimit int // candidates shorter than this earn the difference
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		Base:       100,
		Run:        20,
		WordStart:  15,
		Leading:    25,
		Prefix:     50,
		Gap:        2,
		Late:       1,
		ShortLimit: 20,
	}
}

// Match is one ranked candidate.
type Match struct {
	Text      string
	Score     int
	Positions []int // rune indices of the matched query runes
}

// Rank returns the candidates matching query, best first. Matching ignores
// case. An empty query matches everything with score zero, in input
// order. limit <= 0 means no limit.
func Rank(query string, candidates []string, limit int) []Match {
	return DefaultWeights().Rank(query, candidates, limit)
}

// Best returns the highest ranked candidate.
func Best(query string, candidates []string) (Match, bool) {
	m := Rank(query, candidates, 1)
	if len(m) == 0 {
		return Match{}, false
	}
	return m[0], true
}

// Rank ranks candidates using w.
func (w Weights) Rank(query string, candidates []string, limit int) []Match {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))

	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if len(q) == 0 {
			out = append(out, Match{Text: c})
			continue
		}
		pos := positions(q, []rune(strings.ToLower(c)))
		if pos == nil {
			continue
		}
		out = append(out, Match{Text: c, Score: w.score(q, []rune(c), pos), Positions: pos})
	}

	if len(q) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Score != out[j].Score {
				return out[i].Score > out[j].Score
			}
			return out[i].Text < out[j].Text
		})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// positions scans text left to right for each rune of q. It returns nil
// unless every rune is found.
func positions(q, text []rune) []int {
	pos := make([]int, 0, len(q))
	for i := 0; i < len(text) && len(pos) < len(q); i++ {
		if text[i] == q[len(pos)] {
			pos = append(pos, i)
		}
	}
	if len(pos) != len(q) {
		return nil
	}
	return pos
}

func (w Weights) score(q, text []rune, pos []int) int {
	s := w.Base
	for i, p := range pos {
		if i > 0 && p == pos[i-1]+1 {
			s += w.Run
		}
		if wordStart(text, p) {
			s += w.WordStart
		}
	}
	if pos[0] == 0 {
		s += w.Leading
	}
	if gap := pos[len(pos)-1] - pos[0] + 1 - len(pos); gap > 0 {
		s -= gap * w.Gap
	}
	s -= pos[0] * w.Late
	if n := len(text); n < w.ShortLimit {
		s += w.ShortLimit - n
	}
	if isPrefix(q, text) {
		s += w.Prefix
	}
	return max(s, 1)
}

// wordStart reports whether text[i] begins a word: the first rune, a rune
// after a space or punctuation, or an upper-case rune after a lower-case
// one.
func wordStart(text []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := text[i-1], text[i]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

func isPrefix(q, text []rune) bool {
	if len(text) < len(q) {
		return false
	}
	for i, r := range q {
		if unicode.ToLower(text[i]) != r {
			return false
		}
	}
	return true
}

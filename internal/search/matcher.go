package search

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyMatchV2 reads package-level scoring tables that fzf only fills
// in via Init; without it, uppercase input never case-folds and fails
// to match.
func init() {
	algo.Init("default")
}

// Matcher scores a prepared pattern against one text field. A zero
// score means no match. The concrete matching algorithm is pluggable;
// the two-phase search only needs match-or-not per field.
type Matcher interface {
	Match(text string, pattern []rune) int
}

// Pattern prepares a query token for matching: lower-cased and
// diacritic-folded, so "Žofia" is found by "zofia" and vice versa.
func Pattern(token string) []rune {
	return algo.NormalizeRunes([]rune(strings.ToLower(token)))
}

// fzfMatcher runs fzf's edit-distance scoring with case folding and
// latin normalization enabled. The slab is scratch memory reused
// across calls.
type fzfMatcher struct {
	slab *util.Slab
}

// NewMatcher returns the default fzf-backed matcher.
func NewMatcher() Matcher {
	return &fzfMatcher{slab: util.MakeSlab(100*1024, 2048)}
}

func (m *fzfMatcher) Match(text string, pattern []rune) int {
	if len(pattern) == 0 || text == "" {
		return 0
	}
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, m.slab)
	if result.Score <= 0 {
		return 0
	}
	return result.Score
}

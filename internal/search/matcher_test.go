package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcherFoldsCaseAndDiacritics(t *testing.T) {
	m := NewMatcher()

	// Uppercase letters in the stored text must still be reachable
	// from a lower-cased query token.
	assert.Positive(t, m.Match("Novak", Pattern("novak")))
	assert.Positive(t, m.Match("NOVAK", Pattern("novak")))
	assert.Positive(t, m.Match("Žofia Kráľová", Pattern("kralova")))

	assert.Zero(t, m.Match("Novak", Pattern("petra")))
}

func TestMatcherEmptyInputs(t *testing.T) {
	m := NewMatcher()

	assert.Zero(t, m.Match("", Pattern("novak")))
	assert.Zero(t, m.Match("Novak", Pattern("")))
}

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	testData := []struct {
		word    string
		typ     TokenType
		literal string
	}{
		{"ALGORITHME", TokenAlgorithm, "ALGORITHME"},
		{"algorithme", TokenAlgorithm, "ALGORITHME"},
		{"TantQue", TokenWhile, "TANTQUE"},
		{"AFFICHER", TokenWrite, "AFFICHER"},
		{"ECRIRE", TokenWrite, "ECRIRE"},
		{"compteur", TokenIdent, "compteur"},
		{"Compteur", TokenIdent, "Compteur"},
		// The loop-bound separator is not a lexical keyword; the parser
		// recognizes it in position.
		{"A", TokenIdent, "A"},
		{"a", TokenIdent, "a"},
	}
	for _, data := range testData {
		tt, lit := LookupIdent(data.word)
		assert.Equal(t, data.typ, tt, "word %q", data.word)
		assert.Equal(t, data.literal, lit, "word %q", data.word)
	}
}

func TestIsTypeKeyword(t *testing.T) {
	assert.True(t, Token{Type: TokenIntType}.IsTypeKeyword())
	assert.True(t, Token{Type: TokenBoolType}.IsTypeKeyword())
	assert.False(t, Token{Type: TokenIdent}.IsTypeKeyword())
	assert.False(t, Token{Type: TokenTrue}.IsTypeKeyword())
}

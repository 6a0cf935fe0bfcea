// Package search finds catalog formulas by keyword. Text is split on
// non-alphanumerics, lower-cased, stripped of stop words and stemmed, so
// "accelerating planes" finds the runway formula.
package search

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Tokenizer turns text into normalized search terms.
type Tokenizer struct {
	language  string
	stopWords map[string]bool
}

// NewTokenizer creates a tokenizer with English stemming.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		language:  "english",
		stopWords: buildStopWords(),
	}
}

// Tokenize converts text into distinct stemmed terms in first-seen order.
func (t *Tokenizer) Tokenize(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var terms []string
	for _, part := range parts {
		term := t.Term(part)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// Term normalizes a single word, returning "" for stop words.
func (t *Tokenizer) Term(word string) string {
	lower := strings.ToLower(word)
	if lower == "" || t.stopWords[lower] {
		return ""
	}
	if len(lower) < 3 {
		return lower
	}
	stemmed, err := snowball.Stem(lower, t.language, true)
	if err != nil || stemmed == "" {
		return lower
	}
	return stemmed
}

func buildStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "s",
		"given", "how", "in", "is", "it", "its", "of", "on", "or", "the",
		"to", "what", "with",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

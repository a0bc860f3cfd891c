// Package moderation masks banned words in user supplied text.
//
// Matching is whole-word and case-insensitive. A word is a maximal run of
// letters, digits and combining marks; every matched word is replaced by one
// '*' per character so the masked text keeps the rune length and offsets of the
// original. '*' is not a word character, so masking already-masked text is a no-op.
package moderation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// ErrInvalidWord is returned for banned words that are empty or contain non-word characters
var ErrInvalidWord = errors.New("banned word must be a single word")

// WordSet is a folded set of banned words ready for matching
type WordSet struct {
	words map[string]struct{}
}

// NewWordSet builds a WordSet from raw banned words. Blank entries are ignored.
func NewWordSet(words []string) WordSet {
	folder := cases.Fold()
	set := WordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		set.words[folder.String(w)] = struct{}{}
	}
	return set
}

// Len returns the number of distinct banned words
func (s WordSet) Len() int {
	return len(s.words)
}

// Sanitize masks every banned word in text
func (s WordSet) Sanitize(text string) string {
	out, _ := s.SanitizeCount(text)
	return out
}

// SanitizeCount masks every banned word in text and returns the number of words masked
func (s WordSet) SanitizeCount(text string) (string, int) {
	if len(s.words) == 0 || text == "" {
		return text, 0
	}

	folder := cases.Fold()
	var b strings.Builder
	b.Grow(len(text))
	masked := 0

	i := 0
	for i < len(text) {
		r, width := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			b.WriteString(text[i : i+width])
			i += width
			continue
		}

		start := i
		runes := 0
		for i < len(text) {
			r, width = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) {
				break
			}
			i += width
			runes++
		}

		word := text[start:i]
		if _, banned := s.words[folder.String(word)]; banned {
			b.WriteString(strings.Repeat("*", runes))
			masked++
			continue
		}
		b.WriteString(word)
	}

	return b.String(), masked
}

// Sanitize masks every whole-word, case-insensitive occurrence of the banned words in text
func Sanitize(text string, bannedWords []string) string {
	return NewWordSet(bannedWords).Sanitize(text)
}

// NormalizeWord lowercases and trims a banned word and checks it is a single word
func NormalizeWord(word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", ErrInvalidWord
	}
	for _, r := range word {
		if !isWordRune(r) {
			return "", ErrInvalidWord
		}
	}
	return word, nil
}

func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

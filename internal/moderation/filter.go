package moderation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// WordSource supplies the current banned word list
type WordSource interface {
	BannedWords(ctx context.Context) ([]string, error)
}

// WordLister is implemented by stores that keep the banned word list
type WordLister interface {
	List(ctx context.Context) ([]string, error)
}

// ListerSource adapts a WordLister into a WordSource
type ListerSource struct {
	Lister WordLister
}

// BannedWords returns the words held by the underlying store
func (s ListerSource) BannedWords(ctx context.Context) ([]string, error) {
	return s.Lister.List(ctx)
}

// StaticSource is a fixed banned word list
type StaticSource []string

// BannedWords returns the fixed list
func (s StaticSource) BannedWords(ctx context.Context) ([]string, error) {
	return []string(s), nil
}

// Filter sanitizes text against the banned words of a WordSource
type Filter struct {
	source WordSource
	log    zerolog.Logger
	onMask func(n int)
}

// NewFilter creates a Filter. onMask, if set, receives the number of words masked per call.
func NewFilter(source WordSource, log zerolog.Logger, onMask func(n int)) *Filter {
	return &Filter{
		source: source,
		log:    log.With().Str("component", "moderation").Logger(),
		onMask: onMask,
	}
}

// WordSet loads the current banned words
func (f *Filter) WordSet(ctx context.Context) (WordSet, error) {
	words, err := f.source.BannedWords(ctx)
	if err != nil {
		return WordSet{}, fmt.Errorf("failed to load banned words: %w", err)
	}
	return NewWordSet(words), nil
}

// Sanitize masks banned words in text using the current list
func (f *Filter) Sanitize(ctx context.Context, text string) (string, error) {
	set, err := f.WordSet(ctx)
	if err != nil {
		return "", err
	}
	return f.Apply(set, text), nil
}

// Apply masks banned words in text using an already loaded set
func (f *Filter) Apply(set WordSet, text string) string {
	out, masked := set.SanitizeCount(text)
	if masked > 0 {
		f.log.Debug().Int("masked_words", masked).Msg("Masked banned words")
		if f.onMask != nil {
			f.onMask(masked)
		}
	}
	return out
}

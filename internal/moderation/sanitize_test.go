package moderation

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []string
		want  string
	}{
		{
			name:  "masks whole word",
			text:  "no spoiler here",
			words: []string{"spoiler"},
			want:  "no ******* here",
		},
		{
			name:  "case insensitive",
			text:  "SPOILER alert: Spoiler!",
			words: []string{"spoiler"},
			want:  "******* alert: *******!",
		},
		{
			name:  "does not match inside longer words",
			text:  "no spoilers here, classic assessment",
			words: []string{"spoiler", "ass"},
			want:  "no spoilers here, classic assessment",
		},
		{
			name:  "punctuation boundaries",
			text:  "(darn),darn.darn",
			words: []string{"darn"},
			want:  "(****),****.****",
		},
		{
			name:  "multiple words",
			text:  "foo bar baz",
			words: []string{"foo", "baz"},
			want:  "*** bar ***",
		},
		{
			name:  "non ascii word keeps rune length",
			text:  "c'est très grossièreté ici",
			words: []string{"grossièreté"},
			want:  "c'est très *********** ici",
		},
		{
			name:  "empty list leaves text untouched",
			text:  "anything goes",
			words: nil,
			want:  "anything goes",
		},
		{
			name:  "blank entries are ignored",
			text:  "a b c",
			words: []string{"", "  "},
			want:  "a b c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.text, tt.words)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, utf8.RuneCountInString(tt.text), utf8.RuneCountInString(got))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	words := []string{"spoiler", "darn", "ééé"}
	inputs := []string{
		"no spoiler here",
		"Darn darn DARN",
		"ééé and ÉÉÉ",
		"****** already masked",
		"",
		"mixed\tspoiler\nlines",
	}

	for _, in := range inputs {
		once := Sanitize(in, words)
		twice := Sanitize(once, words)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %q", in)
	}
}

func TestSanitize_PreservesInvalidUTF8(t *testing.T) {
	in := "bad \xff byte darn"
	got := Sanitize(in, []string{"darn"})
	assert.Equal(t, "bad \xff byte ****", got)
}

func TestWordSet_SanitizeCount(t *testing.T) {
	set := NewWordSet([]string{"spoiler", "Spoiler"})
	require.Equal(t, 1, set.Len())

	out, n := set.SanitizeCount("spoiler, spoiler and a spoilers")
	assert.Equal(t, "*******, ******* and a spoilers", out)
	assert.Equal(t, 2, n)
}

func TestNormalizeWord(t *testing.T) {
	word, err := NormalizeWord("  Spoiler ")
	require.NoError(t, err)
	assert.Equal(t, "spoiler", word)

	_, err = NormalizeWord("two words")
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = NormalizeWord("   ")
	assert.ErrorIs(t, err, ErrInvalidWord)
}

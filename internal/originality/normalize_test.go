package originality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"punctuation", "Hello, World!", "hello world"},
		{"whitespace runs", "  The\tquick \n\n brown   fox  ", "the quick brown fox"},
		{"digits kept", "Chapter 12: the END.", "chapter 12 the end"},
		{"non ascii letters", "Café déjà vu", "caf d j vu"},
		{"only symbols", "!!! ??? ...", ""},
		{"joined by symbol", "state-of-the-art", "state of the art"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  Mixed CASE\twith\n\nnewlines  ",
		"Café 123 -- résumé",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

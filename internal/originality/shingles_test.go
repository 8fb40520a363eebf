package originality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShingles(t *testing.T) {
	set := Shingles("the quick brown fox", 3)
	assert.Equal(t, []string{"quick brown fox", "the quick brown"}, set.Sorted())
}

func TestShinglesTooFewTokens(t *testing.T) {
	assert.Empty(t, Shingles("two words", 3))
	assert.Empty(t, Shingles("", 3))
}

func TestShinglesDeduplicates(t *testing.T) {
	set := Shingles("a b c a b c", 3)
	assert.Len(t, set, 3)
	assert.True(t, set.Contains("a b c"))
	assert.True(t, set.Contains("b c a"))
	assert.True(t, set.Contains("c a b"))
}

func TestSequenceKeepsFirstOccurrenceOrder(t *testing.T) {
	seq := Sequence("x y z x y z w", 3)
	assert.Equal(t, []string{"x y z", "y z x", "z x y", "y z w"}, seq)
}

func TestShinglesCustomSize(t *testing.T) {
	set := Shingles("one two three", 2)
	assert.Equal(t, []string{"one two", "two three"}, set.Sorted())
}

package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatToken(t *testing.T) {
	assert.Equal(t, "↵", FormatToken("\n"))
	assert.Equal(t, "→", FormatToken("\t"))
	assert.Equal(t, "·", FormatToken(" "))
	assert.Equal(t, " cat", FormatToken(" cat"))
}

func TestFormatInlineToken(t *testing.T) {
	assert.Equal(t, "·cat", FormatInlineToken(" cat"))
	assert.Equal(t, "a↵b", FormatInlineToken("a\nb"))
	assert.Equal(t, "·", FormatInlineToken(" "))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 5))
	assert.Equal(t, "hel…", TruncateString("hello", 4))
	assert.Equal(t, "h", TruncateString("hello", 1))
	assert.Equal(t, "", TruncateString("hello", 0))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 0, Clamp(-1, 0, 3))
	assert.Equal(t, 1.0, ClampFloat(1.5, 0, 1))
	assert.Equal(t, 0.0, ClampFloat(-0.5, 0, 1))
	assert.Equal(t, 0.0, ClampFloat(math.NaN(), 0, 1))
	assert.Equal(t, 0.25, ClampFloat(0.25, 0, 1))
}

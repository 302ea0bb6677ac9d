package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "Course objectives", truncate("Course objectives", 60))
		assert.Equal(t, "", truncate("", 60))
	})

	t.Run("long strings are shortened with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		got := truncate(long, 60)

		assert.Len(t, []rune(got), 60)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multibyte characters never split", func(t *testing.T) {
		// Tamil statement text is common in the questionnaire; every rune
		// here is multibyte, so a byte-indexed cut would break one apart.
		long := strings.Repeat("அ", 80)
		got := truncate(long, 60)

		assert.True(t, utf8.ValidString(got))
		assert.Len(t, []rune(got), 60)
	})
}

func TestSheetName(t *testing.T) {
	t.Run("short names unchanged", func(t *testing.T) {
		assert.Equal(t, "COURSE EFFECTIVENESS", sheetName("COURSE EFFECTIVENESS"))
	})

	t.Run("clamped to 31 runes", func(t *testing.T) {
		got := sheetName(strings.Repeat("அ", 40))

		assert.True(t, utf8.ValidString(got))
		assert.Len(t, []rune(got), 31)
	})
}

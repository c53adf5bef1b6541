package refstore

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestSafeFilename tests title sanitization across the character
// classes that matter for cross-platform filenames.
func TestSafeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "plain title passes through",
			title: "Artificial intelligence",
			want:  "Artificial intelligence",
		},
		{
			name:  "slashes and colons become single underscores",
			title: "Bad/Title::Test",
			want:  "Bad_Title_Test",
		},
		{
			name:  "windows-reserved characters are replaced",
			title: `What? A "quoted" <title> | here*`,
			want:  "What_ A _quoted_ _title_ _ here_",
		},
		{
			name:  "run of mixed illegal characters collapses to one underscore",
			title: `a\/:*b`,
			want:  "a_b",
		},
		{
			name:  "whitespace runs collapse to single spaces",
			title: "Deep  learning\tmodels",
			want:  "Deep learning models",
		},
		{
			name:  "leading and trailing whitespace is trimmed",
			title: "  padded title  ",
			want:  "padded title",
		},
		{
			name:  "control characters are replaced",
			title: "line\x00break\x1ftitle",
			want:  "line_break_title",
		},
		{
			name:  "empty title becomes untitled",
			title: "",
			want:  "untitled",
		},
		{
			name:  "whitespace-only title becomes untitled",
			title: "   \t  ",
			want:  "untitled",
		},
		{
			name:  "illegal-only title keeps the underscore",
			title: "///",
			want:  "_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SafeFilename(tt.title); got != tt.want {
				t.Errorf("SafeFilename(%q) = %q, expected %q", tt.title, got, tt.want)
			}
		})
	}
}

// TestSafeFilenameTruncation tests the length cap separately because
// the inputs are too long to read comfortably in a table.
func TestSafeFilenameTruncation(t *testing.T) {
	t.Parallel()

	t.Run("long titles are capped at the rune limit", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 300)
		got := SafeFilename(long)
		if utf8.RuneCountInString(got) != MaxFilenameRunes {
			t.Errorf("expected %d runes, got %d", MaxFilenameRunes, utf8.RuneCountInString(got))
		}
	})

	t.Run("truncation does not split multibyte characters", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("日", 300)
		got := SafeFilename(long)
		if !utf8.ValidString(got) {
			t.Error("expected valid UTF-8 after truncation")
		}
		if utf8.RuneCountInString(got) != MaxFilenameRunes {
			t.Errorf("expected %d runes, got %d", MaxFilenameRunes, utf8.RuneCountInString(got))
		}
	})

	t.Run("truncation trims a trailing space", func(t *testing.T) {
		t.Parallel()

		// Rune 150 lands just after the space separating the two words
		long := strings.Repeat("a", 149) + " bbbb"
		got := SafeFilename(long)
		if got != strings.Repeat("a", 149) {
			t.Errorf("expected trailing space to be trimmed, got %q (len %d)", got, len(got))
		}
	})

	t.Run("short titles are not truncated", func(t *testing.T) {
		t.Parallel()

		title := strings.Repeat("a", MaxFilenameRunes)
		if got := SafeFilename(title); got != title {
			t.Errorf("expected title unchanged, got %q", got)
		}
	})
}

// TestSafeFilenameNormalization verifies that composed and decomposed
// forms of the same visible title map to the same filename.
func TestSafeFilenameNormalization(t *testing.T) {
	t.Parallel()

	// é as a single code point vs. e followed by a combining acute accent
	composed := "Café"
	decomposed := "Café"
	if SafeFilename(composed) != SafeFilename(decomposed) {
		t.Errorf("expected %q and %q to sanitize identically, got %q and %q",
			composed, decomposed, SafeFilename(composed), SafeFilename(decomposed))
	}
}

package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 7, "hello.."},
		{"tiny width", "hello", 2, "he"},
		{"zero width", "hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("%s: truncate(%q, %d) = %q, want %q", tt.name, tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncateWideRunes(t *testing.T) {
	got := truncate("ありがとうございます", 8)
	if w := runewidth.StringWidth(got); w > 8 {
		t.Errorf("truncated width = %d, want <= 8 (%q)", w, got)
	}
	if !strings.HasSuffix(got, "..") {
		t.Errorf("got %q, want .. suffix", got)
	}
}

func TestPreviewText(t *testing.T) {
	multi := "first line\nsecond\tline   with  gaps"
	got := previewText(multi, 100)
	if strings.ContainsAny(got, "\n\t") {
		t.Errorf("preview kept line breaks: %q", got)
	}
	if got != "first line second line with gaps" {
		t.Errorf("got %q", got)
	}

	long := strings.Repeat("a", 250)
	got = previewText(long, 200)
	if len([]rune(got)) != 203 {
		t.Errorf("preview length = %d runes, want 203", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("got %q, want ... suffix", got)
	}
}

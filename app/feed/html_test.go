package feed

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"empty", "", ""},
		{"plain text", "already plain", "already plain"},
		{"tags removed", "<p>Hello <b>world</b></p>", "Hello world"},
		{"whitespace collapsed", "<div>\n  spaced \t out  </div>", "spaced out"},
		{"nested markup", "<article><h1>Title</h1><p>Body text.</p></article>", "TitleBody text."},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.html); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}

func TestStripHTML_CapsLength(t *testing.T) {
	long := "<p>" + strings.Repeat("a", maxStrippedLength*2) + "</p>"
	got := StripHTML(long)
	if len(got) != maxStrippedLength {
		t.Errorf("Expected stripped text capped at %d chars, got %d", maxStrippedLength, len(got))
	}
}

func TestFirstImageURL(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"empty", "", ""},
		{"no image", "<p>text only</p>", ""},
		{"single image", `<p><img src="https://example.com/a.jpg" alt=""></p>`, "https://example.com/a.jpg"},
		{"first of many", `<img src="https://example.com/1.png"><img src="https://example.com/2.png">`, "https://example.com/1.png"},
		{"relative src", `<img src="/local.png">`, "/local.png"},
		{"img without src", `<img alt="decorative">`, ""},
	}

	for _, tt := range tests {
		if got := FirstImageURL(tt.html); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}

package model

import (
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		if !ok || got != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, got, ok)
		}
	}
	if _, ok := ParseCategory("audio"); ok {
		t.Fatalf("expected audio to be rejected")
	}
	if _, ok := ParseCategory(""); ok {
		t.Fatalf("expected empty string to be rejected")
	}
}

func TestNewSessionStartsAtMenu(t *testing.T) {
	s := NewSession(42)
	if s.Stage != StageMainMenu {
		t.Fatalf("stage = %q", s.Stage)
	}
	if s.LastActivity.IsZero() {
		t.Fatalf("expected LastActivity to be set")
	}
}

func TestNewHistoryEntryTruncates(t *testing.T) {
	long := strings.Repeat("ä", PreviewLimit+50)
	e := NewHistoryEntry(CategoryImage, long)
	if got := len([]rune(e.Preview)); got != PreviewLimit+1 { // +1 for the ellipsis
		t.Fatalf("preview length = %d", got)
	}
	if !strings.HasSuffix(e.Preview, "…") {
		t.Fatalf("expected ellipsis suffix")
	}

	short := NewHistoryEntry(CategoryCode, "small")
	if short.Preview != "small" {
		t.Fatalf("short preview = %q", short.Preview)
	}
}

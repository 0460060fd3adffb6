package telegram

import (
	"strings"
	"testing"
)

func TestSplitIntoChunksShortText(t *testing.T) {
	got := splitIntoChunks("hello world", maxMessageLength)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("chunks = %v", got)
	}
	if got := splitIntoChunks("", maxMessageLength); got != nil {
		t.Fatalf("empty text chunks = %v", got)
	}
}

func TestSplitIntoChunksWordBoundaries(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 50))
	chunks := splitIntoChunks(text, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 20 {
			t.Fatalf("chunk %d exceeds limit: %q", i, c)
		}
		for _, w := range strings.Fields(c) {
			if w != "word" {
				t.Fatalf("chunk %d split a word: %q", i, c)
			}
		}
	}
}

func TestSplitIntoChunksOversizedToken(t *testing.T) {
	token := strings.Repeat("x", 45)
	chunks := splitIntoChunks(token, 20)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if rejoined := strings.Join(chunks, ""); rejoined != token {
		t.Fatalf("content lost while splitting an oversized token")
	}
}

func TestSplitIntoChunksRuneAware(t *testing.T) {
	// Multi-byte runes must count as one character each.
	text := strings.TrimSpace(strings.Repeat("héllo ", 10))
	for _, c := range splitIntoChunks(text, 12) {
		if n := len([]rune(c)); n > 12 {
			t.Fatalf("chunk has %d runes: %q", n, c)
		}
	}
}

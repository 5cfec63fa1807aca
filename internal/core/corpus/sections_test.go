package corpus

import (
	"strings"
	"testing"
)

func TestSplitSections(t *testing.T) {
	text := `BLISS SALON
Welcome to Bliss Salon.

=== HOURS ===
Monday to Saturday 9am to 7pm.

=== SERVICES ===
Haircuts, coloring and nails.

=== EMPTY ===
`

	sections := SplitSections(text)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3: %+v", len(sections), sections)
	}

	tests := []struct {
		idx     int
		title   string
		content string
	}{
		{0, GeneralTitle, "BLISS SALON\nWelcome to Bliss Salon."},
		{1, "HOURS", "Monday to Saturday 9am to 7pm."},
		{2, "SERVICES", "Haircuts, coloring and nails."},
	}
	for _, tt := range tests {
		got := sections[tt.idx]
		if got.Title != tt.title {
			t.Errorf("sections[%d].Title = %q, want %q", tt.idx, got.Title, tt.title)
		}
		if got.Category != tt.title {
			t.Errorf("sections[%d].Category = %q, want %q", tt.idx, got.Category, tt.title)
		}
		if got.Content != tt.content {
			t.Errorf("sections[%d].Content = %q, want %q", tt.idx, got.Content, tt.content)
		}
	}
}

func TestSplitSections_LongSectionIsChunked(t *testing.T) {
	words := make([]string, 500)
	for i := range words {
		words[i] = "treatment"
	}
	text := "=== SPA MENU ===\n" + strings.Join(words, " ")

	sections := SplitSections(text)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "SPA MENU - Part 1" || sections[1].Title != "SPA MENU - Part 2" {
		t.Errorf("titles = %q, %q", sections[0].Title, sections[1].Title)
	}
	if sections[1].Category != "SPA MENU" {
		t.Errorf("Category = %q, want SPA MENU", sections[1].Category)
	}
}

func TestChunkText(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	text := strings.Join(words, " ")

	chunks := ChunkText(text, 4, 1)
	want := []string{"a b c d", "d e f g", "g h i j", "j"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(chunks), chunks, len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}

	if got := ChunkText("   ", 4, 1); got != nil {
		t.Errorf("ChunkText(blank) = %q, want nil", got)
	}
}

func TestFormatQA(t *testing.T) {
	got := FormatQA("  Do you sell gift cards? ", "Yes, in any amount.\n")
	want := "Q: Do you sell gift cards?\nA: Yes, in any amount."
	if got != want {
		t.Errorf("FormatQA = %q, want %q", got, want)
	}
	if block := AppendBlock("q", "a"); block != "Q: q\nA: a\n\n" {
		t.Errorf("AppendBlock = %q", block)
	}
}

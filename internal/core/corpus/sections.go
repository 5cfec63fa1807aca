// Package corpus contains the pure text handling for the salon knowledge
// corpus: splitting it into sections and chunks, and formatting learned
// question/answer pairs.
package corpus

import (
	"fmt"
	"strings"
)

// SectionMarker starts every titled section of the corpus file.
const SectionMarker = "=== "

// GeneralTitle names the text that precedes the first titled section.
const GeneralTitle = "General Information"

// Chunking defaults for long sections.
const (
	LongSectionChars = 1000
	ChunkWords       = 400
	ChunkOverlap     = 50
)

// Section is one unit of knowledge ready to be embedded.
type Section struct {
	Title    string
	Category string
	Content  string
}

// SplitSections parses the corpus into sections. Sections longer than
// LongSectionChars are split into overlapping word chunks titled
// "<title> - Part N". Sections with no content are dropped.
func SplitSections(text string) []Section {
	var out []Section

	for i, raw := range strings.Split(text, SectionMarker) {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		title, body := GeneralTitle, raw
		if i > 0 {
			header, rest, _ := strings.Cut(raw, "\n")
			title = strings.TrimSpace(strings.ReplaceAll(header, "===", ""))
			body = rest
		}

		if len(body) > LongSectionChars {
			for n, chunk := range ChunkText(body, ChunkWords, ChunkOverlap) {
				out = append(out, Section{
					Title:    fmt.Sprintf("%s - Part %d", title, n+1),
					Category: title,
					Content:  chunk,
				})
			}
			continue
		}

		content := strings.TrimSpace(body)
		if content == "" {
			continue
		}
		out = append(out, Section{Title: title, Category: title, Content: content})
	}

	return out
}

// ChunkText splits text into windows of size words, each starting
// size-overlap words after the previous one.
func ChunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

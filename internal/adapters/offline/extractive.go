package offline

import (
	"context"
	"strings"

	"github.com/example/frontdesk/internal/ports/secondary"
)

// ExtractiveSynthesizer answers with the grounding sentence that best
// overlaps the question. Learned "Q: ...\nA: ..." facts answer with their A
// line. It returns "" when nothing in the context shares a content word with
// the question.
type ExtractiveSynthesizer struct{}

// NewExtractiveSynthesizer creates an extractive synthesizer.
func NewExtractiveSynthesizer() *ExtractiveSynthesizer {
	return &ExtractiveSynthesizer{}
}

type candidate struct {
	match  string // text compared against the question
	answer string // text returned when it wins
}

// Synthesize returns the best grounded sentence for question.
func (s *ExtractiveSynthesizer) Synthesize(ctx context.Context, question, grounding string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	asked := make(map[string]bool)
	for _, tok := range tokenize(question) {
		asked[tok] = true
	}

	best, bestScore := "", 0
	for _, c := range candidates(grounding) {
		score := 0
		for _, tok := range tokenize(c.match) {
			if asked[tok] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c.answer, score
		}
	}
	return best, nil
}

func candidates(context string) []candidate {
	var out []candidate
	lines := strings.Split(context, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if q, ok := strings.CutPrefix(line, "Q: "); ok && i+1 < len(lines) {
			if a, ok := strings.CutPrefix(strings.TrimSpace(lines[i+1]), "A: "); ok {
				out = append(out, candidate{match: q + " " + a, answer: a})
				i++
				continue
			}
		}
		for _, sentence := range splitSentences(line) {
			out = append(out, candidate{match: sentence, answer: sentence})
		}
	}
	return out
}

func splitSentences(line string) []string {
	var out []string
	start := 0
	for i, r := range line {
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		// keep decimals like $4.50 together
		if r == '.' && i+1 < len(line) && line[i+1] != ' ' {
			continue
		}
		if s := strings.TrimSpace(line[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(line[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

var _ secondary.Synthesizer = (*ExtractiveSynthesizer)(nil)

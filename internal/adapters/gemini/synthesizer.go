package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/example/frontdesk/internal/config"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// Synthesizer phrases receptionist answers with a Gemini chat model.
type Synthesizer struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	system      string
}

// NewSynthesizer creates a synthesizer speaking as the configured persona.
func NewSynthesizer(client *genai.Client, cfg config.SynthesisConfig, persona config.PersonaConfig) *Synthesizer {
	return &Synthesizer{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		system:      SystemInstruction(persona),
	}
}

// Synthesize asks the model for a short answer grounded in the salon text.
// A blank model reply means the grounding did not cover the question.
func (s *Synthesizer) Synthesize(ctx context.Context, question, grounding string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(UserPrompt(question, grounding)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(s.system, genai.RoleUser),
			Temperature:       genai.Ptr(s.temperature),
			MaxOutputTokens:   s.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// SystemInstruction is the persona prompt sent with every synthesis call.
func SystemInstruction(persona config.PersonaConfig) string {
	return fmt.Sprintf(`You are %s, a professional receptionist at %s.
Be polite, classy, and brief - answer in 1-2 sentences maximum.
Only answer questions about the salon using the provided information.
If the provided information does not contain relevant details to answer the customer's question, return a blank string.
If you don't know something or the information is insufficient, return a blank string.`,
		persona.Name, persona.Business)
}

// UserPrompt wraps the retrieved salon text and the caller question.
func UserPrompt(question, grounding string) string {
	return fmt.Sprintf(`Based on the following salon information, provide a response as the receptionist:

Salon Information:
%s

Customer Question: %s`, grounding, question)
}

var _ secondary.Synthesizer = (*Synthesizer)(nil)

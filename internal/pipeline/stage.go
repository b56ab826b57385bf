package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/metanotes/internal/llm"
)

// defaultTemperature applies to every stage. Low enough to stay on-topic,
// high enough that merged prose does not read mechanical.
const defaultTemperature = 0.4

// Stage is one prompt-driven transformation: fixed system instructions plus
// an output ceiling. Stages hold no state; running one is a single round
// trip to the completion provider.
type Stage struct {
	// Name labels the stage in logs.
	Name string

	// System is the stage's instruction set: style and focus constraints.
	System string

	// MaxTokens is the output ceiling. Compact stages get less room than
	// prose stages.
	MaxTokens int
}

// Run executes the stage against the given user content. Failures propagate
// unchanged: the prose stages have no sensible fallback.
func (s Stage) Run(ctx context.Context, provider llm.Provider, content string) (string, error) {
	ctx = llm.WithStage(ctx, s.Name)

	resp, err := provider.Complete(ctx, llm.Request{
		System:      s.System,
		User:        content,
		MaxTokens:   s.MaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", s.Name, err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// The four leaf stages. They consume the same raw notes independently and
// feed the merge stage. Style contracts (bullets-only, prose-only, compact,
// example-only) live entirely in the prompts; the merge stage depends on
// them holding.
var (
	ExamPerspective = Stage{
		Name:      "exam-perspective",
		MaxTokens: 1200,
		System: `You are an exam-oriented study assistant. Your ONLY job is to extract from the given notes:
- Definitions (as they might appear in exams)
- Key terms and keywords
- High-probability exam points

RULES:
- Output ONLY bullet points. No paragraphs, no explanations.
- Be concise. One line per bullet.
- Do not explain anything—just list what would be tested.`,
	}

	ConceptUnderstanding = Stage{
		Name:      "concept-understanding",
		MaxTokens: 1200,
		System: `You are a concept explainer for college students. Your job is to explain the CORE IDEAS from the notes in simple, intuitive language.

FOCUS:
- Explain "why" things work, not just "what" they are.
- Use analogies or everyday examples if helpful.
- Keep language at college-student level. Avoid jargon unless essential.
- Be clear and concise. No bullet-point lists—use short paragraphs.`,
	}

	CheatSheet = Stage{
		Name:      "cheat-sheet",
		MaxTokens: 800,
		System: `You are a cheat-sheet generator. Create an ULTRA-SHORT revision summary from the notes.

RULES:
- Only bullet points. Each bullet must be one short line.
- Include formulas or key rules if the topic has them.
- Keep output extremely compact—minimal words, maximum signal.
- No explanations. Just revision bullets.`,
	}

	ExampleIntuition = Stage{
		Name:      "example-intuition",
		MaxTokens: 600,
		System: `You are an examples specialist. From the given notes, provide 1–2 strong intuitive or real-world examples that help a student "get" the concept.

RULES:
- Do NOT repeat definitions or formal explanations.
- Focus on concrete, memorable examples (real-world, analogy, or simple scenario).
- Keep each example short (2–4 sentences).
- If the topic has a formula or rule, show one quick worked example if helpful.`,
	}
)

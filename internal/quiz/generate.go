package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/metanotes/internal/llm"
)

const generationSystemPrompt = `You generate a short quiz from a unified study explanation. Output ONLY valid JSON, no other text.

Required structure:
{
  "questions": [
    { "id": "q1", "type": "mcq", "question": "Question text?", "options": ["A", "B", "C", "D"], "correctIndex": 0, "expectedKeywords": [] },
    { "id": "q2", "type": "mcq", "question": "Question text?", "options": ["A", "B", "C", "D"], "correctIndex": 1, "expectedKeywords": [] },
    { "id": "q3", "type": "short", "question": "Short answer question?", "options": [], "correctIndex": 0, "expectedKeywords": ["keyword1", "keyword2"] },
    { "id": "q4", "type": "short", "question": "Another short answer?", "options": [], "correctIndex": 0, "expectedKeywords": ["keyword1"] },
    { "id": "q5", "type": "application", "question": "Application-based question (apply concept to a scenario)?", "options": [], "correctIndex": 0, "expectedKeywords": ["keyword1", "keyword2"] }
  ]
}

Rules:
- Exactly 5 questions: 2 MCQ, 2 short-answer, 1 application-based.
- Questions must directly test the key points from the explanation.
- For short/application: expectedKeywords are words that a good answer should include (used for evaluation).
- Output only the JSON object.`

const (
	maxQuestions       = 5
	generationMaxToken = 1500
)

// Generator derives a quiz from a unified explanation.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a quiz Generator backed by the given provider.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// quizOutput is the raw decoded model response.
type quizOutput struct {
	Questions []Question `json:"questions"`
}

// Generate produces the question set for a unified explanation. The result
// always holds between 1 and 5 well-formed questions: excess is truncated,
// and a decode failure or an empty decoded list is replaced wholesale by the
// deterministic placeholder set (a shortfall of 1-4 decoded questions is
// returned as-is). Provider failures propagate.
func (g *Generator) Generate(ctx context.Context, unifiedExplanation string) ([]Question, Source, error) {
	ctx = llm.WithStage(ctx, "quiz-generation")

	resp, err := g.provider.Complete(ctx, llm.Request{
		System:      generationSystemPrompt,
		User:        unifiedExplanation,
		Schema:      QuizSchema,
		MaxTokens:   generationMaxToken,
		Temperature: 0.4,
	})
	if err != nil {
		// Schema-invalid or truncated output is a decode failure,
		// absorbed locally.
		if isDecodeFailure(err) {
			return fallbackQuestions(), SourceFallback, nil
		}
		return nil, "", fmt.Errorf("quiz generation: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal([]byte(stripFence(resp.Text())), &out); err != nil {
		return fallbackQuestions(), SourceFallback, nil
	}

	if len(out.Questions) == 0 {
		return fallbackQuestions(), SourceFallback, nil
	}

	questions := out.Questions
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}

	return questions, SourceModel, nil
}

// isDecodeFailure reports whether a provider error means the model produced
// unusable structured output, as opposed to a transport or account failure.
func isDecodeFailure(err error) bool {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return true
	}
	var truncated *llm.ErrMaxTokensExceeded
	return errors.As(err, &truncated)
}

// fallbackQuestions is the fixed placeholder set used when the model output
// cannot be decoded. Generic but schema-valid, so the pipeline contract of
// exactly five questions always holds.
func fallbackQuestions() []Question {
	zero := 0
	return []Question{
		{
			ID:               "q1",
			Type:             TypeMCQ,
			Question:         "What is the main idea?",
			Options:          []string{"A", "B", "C", "D"},
			CorrectIndex:     &zero,
			ExpectedKeywords: []string{},
		},
		{
			ID:               "q2",
			Type:             TypeMCQ,
			Question:         "Which is a key point?",
			Options:          []string{"A", "B", "C", "D"},
			CorrectIndex:     &zero,
			ExpectedKeywords: []string{},
		},
		{
			ID:               "q3",
			Type:             TypeShort,
			Question:         "Summarize the core idea in one sentence.",
			ExpectedKeywords: []string{},
		},
		{
			ID:               "q4",
			Type:             TypeShort,
			Question:         "What is one important takeaway?",
			ExpectedKeywords: []string{},
		},
		{
			ID:               "q5",
			Type:             TypeApplication,
			Question:         "Apply this concept to a simple example.",
			ExpectedKeywords: []string{},
		},
	}
}

package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/metanotes/internal/llm"
)

const evaluationSystemPrompt = `You evaluate a student's quiz answers. You receive each question with the student's answer and the expected/key information. Output ONLY valid JSON:

{
  "score": 3,
  "maxScore": 5,
  "topicUnderstandingPercentage": 75,
  "feedback": [
    { "questionId": "q1", "correct": true, "comment": "Brief comment" },
    { "questionId": "q2", "correct": false, "comment": "Brief comment" }
  ],
  "strengths": ["Concept X", "Concept Y"],
  "weakAreas": ["Concept Z"],
  "overallComment": "One short personalized sentence."
}

Rules:
- score: number of questions answered correctly (or partially for short/application).
- For short/application: give partial credit if answer includes some expected ideas; set correct true if reasonable.
- topicUnderstandingPercentage: integer 0-100 indicating overall grasp of the topic based on answers.
- Keep comments brief and constructive.
- Identify 1–2 strengths and 1–2 weak areas based on answers.
- Output only the JSON object.`

const evaluationMaxToken = 1000

// Evaluator scores a student's answered quiz.
type Evaluator struct {
	provider llm.Provider
}

// NewEvaluator creates an Evaluator backed by the given provider.
func NewEvaluator(provider llm.Provider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Evaluate scores the answered questions. Malformed model output never
// surfaces: any decode failure degrades to the local heuristic scorer, so
// the result is always structurally valid. Provider failures propagate.
func (e *Evaluator) Evaluate(ctx context.Context, answered []AnsweredQuestion) (*EvaluationResult, Source, error) {
	ctx = llm.WithStage(ctx, "quiz-evaluation")

	user, err := json.MarshalIndent(answered, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal answered questions: %w", err)
	}

	resp, err := e.provider.Complete(ctx, llm.Request{
		System:      evaluationSystemPrompt,
		User:        string(user),
		Schema:      EvaluationSchema,
		MaxTokens:   evaluationMaxToken,
		Temperature: 0.4,
	})
	if err != nil {
		if isDecodeFailure(err) {
			return fallbackEvaluation(answered), SourceFallback, nil
		}
		return nil, "", fmt.Errorf("quiz evaluation: %w", err)
	}

	var result EvaluationResult
	if err := json.Unmarshal([]byte(stripFence(resp.Text())), &result); err != nil {
		return fallbackEvaluation(answered), SourceFallback, nil
	}

	return &result, SourceModel, nil
}

// fallbackEvaluation is the deterministic local scorer:
//   - mcq: correct iff the trimmed answer equals the option at correctIndex
//     (exact, case-sensitive comparison);
//   - short/application: correct iff the trimmed answer is non-empty, a
//     lenient attempt-counts heuristic used only on this path.
func fallbackEvaluation(answered []AnsweredQuestion) *EvaluationResult {
	score := 0
	feedback := make([]Feedback, 0, len(answered))

	for _, qa := range answered {
		correct := false
		answer := strings.TrimSpace(qa.UserAnswer)

		if qa.Type == TypeMCQ {
			if qa.CorrectIndex != nil &&
				*qa.CorrectIndex >= 0 && *qa.CorrectIndex < len(qa.Options) {
				correct = answer == strings.TrimSpace(qa.Options[*qa.CorrectIndex])
			}
		} else if answer != "" {
			correct = true
		}

		if correct {
			score++
		}
		feedback = append(feedback, Feedback{
			QuestionID: qa.ID,
			Correct:    correct,
			Comment:    "See answer.",
		})
	}

	maxScore := len(answered)
	percentage := 0
	if maxScore > 0 {
		percentage = int(math.Round(float64(score) / float64(maxScore) * 100))
	}

	return &EvaluationResult{
		Score:                        score,
		MaxScore:                     maxScore,
		TopicUnderstandingPercentage: percentage,
		Feedback:                     feedback,
		Strengths:                    []string{"Review completed."},
		WeakAreas:                    []string{},
		OverallComment:               fmt.Sprintf("You got %d out of %d.", score, maxScore),
	}
}

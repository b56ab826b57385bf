package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/metanotes/internal/llm"
	"github.com/abhisek/metanotes/internal/quiz"
)

const (
	// MinNotesLength is the minimum trimmed input length. Anything shorter
	// cannot yield a meaningful explanation and is rejected before any
	// provider call.
	MinNotesLength = 20

	// wordsPerMinute is the assumed reading speed for the estimate.
	wordsPerMinute = 200
)

// ErrNotesTooShort is returned when the input fails the length precondition.
var ErrNotesTooShort = errors.New("input too short: add more content")

// Result is the output of a full pipeline run.
type Result struct {
	UnifiedExplanation string          `json:"unifiedExplanation"`
	ReadingTimeMinutes float64         `json:"readingTimeMinutes"`
	Questions          []quiz.Question `json:"questions"`

	// QuizSource reports whether the questions were decoded from the model
	// or substituted by the deterministic fallback set.
	QuizSource quiz.Source `json:"-"`
}

// Service drives the stage pipeline: four independent leaf stages fanned out
// concurrently, joined into the merge stage, then quiz generation. Quiz
// evaluation is a separate entry point with no pipeline dependency.
type Service struct {
	provider  llm.Provider
	generator *quiz.Generator
	evaluator *quiz.Evaluator
}

// NewService creates a pipeline Service on the given provider.
func NewService(provider llm.Provider) *Service {
	return &Service{
		provider:  provider,
		generator: quiz.NewGenerator(provider),
		evaluator: quiz.NewEvaluator(provider),
	}
}

// ProcessNotes runs stages 1-6: notes in, unified explanation plus quiz out.
// The four leaf stages run concurrently; the first failure cancels the rest
// and propagates. The merge and generation stages run only after all four
// leaves have returned.
func (s *Service) ProcessNotes(ctx context.Context, notes string) (*Result, error) {
	notes = strings.TrimSpace(notes)
	if len(notes) < MinNotesLength {
		return nil, ErrNotesTooShort
	}

	ctx = llm.WithRequestID(ctx, uuid.NewString())

	var outputs StageOutputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := ExamPerspective.Run(gctx, s.provider, notes)
		outputs.ExamPerspective = out
		return err
	})
	g.Go(func() error {
		out, err := ConceptUnderstanding.Run(gctx, s.provider, notes)
		outputs.ConceptUnderstanding = out
		return err
	})
	g.Go(func() error {
		out, err := CheatSheet.Run(gctx, s.provider, notes)
		outputs.CheatSheet = out
		return err
	})
	g.Go(func() error {
		out, err := ExampleIntuition.Run(gctx, s.provider, notes)
		outputs.ExampleIntuition = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unified, err := Merge(ctx, s.provider, outputs)
	if err != nil {
		return nil, err
	}

	questions, source, err := s.generator.Generate(ctx, unified)
	if err != nil {
		return nil, err
	}

	return &Result{
		UnifiedExplanation: unified,
		ReadingTimeMinutes: EstimateReadingMinutes(unified),
		Questions:          questions,
		QuizSource:         source,
	}, nil
}

// EvaluateQuiz scores an answered question set. Independent of ProcessNotes
// beyond the question schema.
func (s *Service) EvaluateQuiz(ctx context.Context, answered []quiz.AnsweredQuestion) (*quiz.EvaluationResult, quiz.Source, error) {
	ctx = llm.WithRequestID(ctx, uuid.NewString())
	return s.evaluator.Evaluate(ctx, answered)
}

// EstimateReadingMinutes estimates reading time at 200 words per minute,
// rounded to one decimal place. A text counts as at least one word.
func EstimateReadingMinutes(text string) float64 {
	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	return math.Round(float64(words)/wordsPerMinute*10) / 10
}

package quiz

// Type is the question kind.
type Type string

const (
	TypeMCQ         Type = "mcq"
	TypeShort       Type = "short"
	TypeApplication Type = "application"
)

// Question is one quiz item. A generated quiz always holds exactly five:
// two mcq, two short, one application.
type Question struct {
	ID       string `json:"id"`
	Type     Type   `json:"type"`
	Question string `json:"question"`

	// Options and CorrectIndex are set for mcq questions only.
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`

	// ExpectedKeywords guide evaluation of short/application answers.
	// Guidance only, never authoritative.
	ExpectedKeywords []string `json:"expectedKeywords,omitempty"`
}

// AnsweredQuestion pairs a generated question with the student's answer.
// The caller is trusted to pair ids consistently; an absent answer is an
// empty string.
type AnsweredQuestion struct {
	Question
	UserAnswer string `json:"userAnswer"`
}

// Feedback is the per-question verdict in an evaluation.
type Feedback struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
	Comment    string `json:"comment"`
}

// EvaluationResult is the structured score report for an answered quiz.
type EvaluationResult struct {
	Score                        int        `json:"score"`
	MaxScore                     int        `json:"maxScore"`
	TopicUnderstandingPercentage int        `json:"topicUnderstandingPercentage"`
	Feedback                     []Feedback `json:"feedback"`
	Strengths                    []string   `json:"strengths"`
	WeakAreas                    []string   `json:"weakAreas"`
	OverallComment               string     `json:"overallComment"`
}

// Source tags how a structured result was produced: decoded from the model,
// or substituted by the deterministic local fallback. A first-class outcome,
// not an error in disguise.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

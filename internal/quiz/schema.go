package quiz

import "github.com/abhisek/metanotes/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A five-question quiz derived from a unified study explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "Exactly 5 questions: 2 mcq, 2 short, 1 application",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Question identifier: q1 through q5",
						},
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"mcq", "short", "application"},
							"description": "Question kind",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text shown to the student",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 options for mcq. Empty array for short and application.",
						},
						"correctIndex": map[string]any{
							"type":        "integer",
							"description": "Index of the correct option for mcq. 0 for short and application.",
						},
						"expectedKeywords": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Words a good short/application answer should include. Empty array for mcq.",
						},
					},
					"required":             []any{"id", "type", "question", "options", "correctIndex", "expectedKeywords"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for quiz evaluation responses.
var EvaluationSchema = &llm.Schema{
	Name:        "quiz-evaluation",
	Description: "A structured score report for a student's quiz answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Number of questions answered correctly",
			},
			"maxScore": map[string]any{
				"type":        "integer",
				"description": "Total number of questions",
			},
			"topicUnderstandingPercentage": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall grasp of the topic based on the answers",
			},
			"feedback": map[string]any{
				"type":        "array",
				"description": "One entry per question, in question order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"questionId": map[string]any{
							"type": "string",
						},
						"correct": map[string]any{
							"type": "boolean",
						},
						"comment": map[string]any{
							"type":        "string",
							"description": "Brief, constructive comment",
						},
					},
					"required":             []any{"questionId", "correct", "comment"},
					"additionalProperties": false,
				},
			},
			"strengths": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "1-2 concepts the student handled well",
			},
			"weakAreas": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "1-2 concepts to revisit",
			},
			"overallComment": map[string]any{
				"type":        "string",
				"description": "One short personalized sentence",
			},
		},
		"required": []any{
			"score", "maxScore", "topicUnderstandingPercentage",
			"feedback", "strengths", "weakAreas", "overallComment",
		},
		"additionalProperties": false,
	},
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/abhisek/metanotes/internal/llm"
)

// mergeStage combines the four leaf outputs into one fixed-format document.
// The five section headers, deduplication, and the no-meta-references rule
// (never mention agents, AI, or sources) are prompt contracts: the output is
// trusted as-is beyond non-emptiness.
var mergeStage = Stage{
	Name:      "meta-understanding",
	MaxTokens: 1500,
	System: `You are a synthesis editor. You receive four different perspectives on the same topic. Your job is to merge them into ONE coherent, student-friendly explanation.

RULES:
- Remove repetition and overlap. Each idea appears once.
- Optimize for clarity and minimal reading time (under 2 minutes total).
- Output EXACTLY in this format. Use the section headers as given:

TITLE
[One short title for the topic]

CORE IDEA
[2–3 lines only. The main idea in plain language.]

KEY POINTS
[5–7 bullets. No repetition with CORE IDEA.]

ONE EXAMPLE
[One strong example. No repetition of definitions.]

IMPORTANT NOTE
[One formula, rule, or warning if applicable. Otherwise one key takeaway.]

- Do not mention "agents" or "AI" or "sources" in the output.
- Language: college student level. Avoid jargon unless essential.`,
}

// StageOutputs carries the four leaf-stage results into the merge.
type StageOutputs struct {
	ExamPerspective      string
	ConceptUnderstanding string
	CheatSheet           string
	ExampleIntuition     string
}

// Merge produces the unified explanation from the four stage outputs.
func Merge(ctx context.Context, provider llm.Provider, outputs StageOutputs) (string, error) {
	user := fmt.Sprintf(`EXAM PERSPECTIVE (definitions/keywords):
%s

CONCEPT UNDERSTANDING (explanations):
%s

CHEAT SHEET (revision bullets):
%s

EXAMPLES & INTUITION:
%s

Merge the above into one coherent explanation using the required format (TITLE, CORE IDEA, KEY POINTS, ONE EXAMPLE, IMPORTANT NOTE).`,
		outputs.ExamPerspective,
		outputs.ConceptUnderstanding,
		outputs.CheatSheet,
		outputs.ExampleIntuition,
	)

	unified, err := mergeStage.Run(ctx, provider, user)
	if err != nil {
		return "", err
	}
	if unified == "" {
		return "", fmt.Errorf("%s stage: empty response", mergeStage.Name)
	}
	return unified, nil
}

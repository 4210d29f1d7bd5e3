// Package genmodel sends normalized lecture text to a generative model and
// returns the raw completion. Two providers exist: Bedrock (default) and
// Gemini, selected at cold start via MODEL_PROVIDER.
package genmodel

import (
	"context"
	"fmt"
)

// QuestionCount is the number of question/answer pairs the prompt requests.
const QuestionCount = 20

// Provider is a generative-model collaborator. Implementations wrap one
// inference endpoint and return the completion text verbatim; parsing is
// the caller's concern.
type Provider interface {
	// Complete sends the prompt and returns the raw completion text.
	// An empty completion is an error, never "".
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider for logs.
	Name() string
}

// promptTemplate is the fixed instruction template. The bracketed example
// lines teach the model the exact shape the parser expects: one Category
// line and numbered "N. Q: ... / A: ..." pairs.
const promptTemplate = `Please generate %d questions, their answers, and one category(like physics, common sense, computerscience) based on the following text:

Category: [Category]
Questions and Answers:
1. Q: [Question 1]
   A: [Answer 1]
...
%d. Q: [Question %d]
   A: [Answer %d]

Text:
%s

Assistant:`

// BuildPrompt renders the instruction template around the normalized text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, QuestionCount, QuestionCount, QuestionCount, QuestionCount, text)
}

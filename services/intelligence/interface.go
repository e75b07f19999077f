// Package ai wraps the generative-text collaborator used by the audit: one
// structured classification call and one free-form narrative call.
package ai

import (
	"context"
	"encoding/json"
)

// TextClassifier asks the model for a small structured answer. The returned
// JSON is untrusted and must be validated by the caller.
type TextClassifier interface {
	ClassifyJSON(ctx context.Context, instruction, input string) (json.RawMessage, error)
}

// TextGenerator asks the model for free-form text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

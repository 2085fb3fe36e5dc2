package ai

import (
	"context"
	"fmt"
)

// Analyzer turns a serialized health report into a natural-language
// analysis.
type Analyzer interface {
	Analyze(ctx context.Context, reportJSON string) (string, error)
}

// Summarize runs the analyzer and folds any failure into a displayable
// "Error:"-prefixed string, so summarizer problems stay user-facing
// messages and never propagate into the checker.
func Summarize(ctx context.Context, analyzer Analyzer, reportJSON string) string {
	text, err := analyzer.Analyze(ctx, reportJSON)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return text
}

// Package cleaner turns raw extracted text into flowing text with
// blank-line paragraph breaks and "## " chapter headings.
package cleaner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ProgressFunc receives completion fractions in [0, 1].
type ProgressFunc func(fraction float64)

// Cleaner produces cleaned text from raw input.
type Cleaner interface {
	Name() string
	Clean(ctx context.Context, raw string, progress ProgressFunc) (string, error)
}

// Kind selects a cleaner implementation.
type Kind string

const (
	KindHeuristic Kind = "heuristic"
	KindAI        Kind = "ai"
)

// ParseKind maps a user-facing name to a Kind. Empty means heuristic.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heuristic", "rules":
		return KindHeuristic, nil
	case "ai", "llm":
		return KindAI, nil
	default:
		return "", fmt.Errorf("unknown cleaner: %q", s)
	}
}

// ProcessingError reports an alternate-cleaner failure. Callers fall back
// to the heuristic cleaner when they see one.
type ProcessingError struct {
	Segment int
	Err     error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("ai processing error (segment %d): %v", e.Segment, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Monotonic wraps fn so it never sees a value lower than one already reported.
// Values are clamped to [0, 1]. A nil fn yields a no-op.
func Monotonic(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(float64) {}
	}
	var mu sync.Mutex
	last := 0.0
	return func(f float64) {
		f = min(max(f, 0), 1)
		mu.Lock()
		if f < last {
			f = last
		}
		last = f
		mu.Unlock()
		fn(f)
	}
}

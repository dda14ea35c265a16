package cleaner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dgallion1/textpub/internal/chunker"
	"github.com/dgallion1/textpub/internal/llm"
)

const (
	progressStart = 0.2
	progressSpan  = 0.7

	aiTemperature = 0.2
)

// AIOptions tunes the LLM cleaner. Zero values pick defaults.
type AIOptions struct {
	SegmentChars int
	Delay        time.Duration
	MaxRetries   int
	// Backoff returns the wait before retry n (0-indexed).
	Backoff func(attempt int) time.Duration
}

// AI cleans text by sending line-bounded segments to a language model.
type AI struct {
	client llm.Completer
	log    *slog.Logger
	opts   AIOptions
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewAI(client llm.Completer, log *slog.Logger, opts AIOptions) *AI {
	if opts.SegmentChars <= 0 {
		opts.SegmentChars = chunker.DefaultSegmentChars
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = llm.MaxRetries
	}
	if opts.Backoff == nil {
		opts.Backoff = llm.Backoff
	}
	if log == nil {
		log = slog.Default()
	}
	return &AI{client: client, log: log, opts: opts, sleep: sleepCtx}
}

func (a *AI) Name() string { return string(KindAI) }

// Clean returns the joined model output, or a *ProcessingError if any
// segment fails. Cancellation is honoured between segments.
func (a *AI) Clean(ctx context.Context, raw string, progress ProgressFunc) (string, error) {
	progress = Monotonic(progress)
	progress(progressStart)

	segments := chunker.SplitLines(raw, a.opts.SegmentChars)
	total := len(segments)
	a.log.Info("ai clean started",
		"model", a.client.Model(),
		"segments", total,
		"segment_chars", chunker.Sizes(segments),
		"est_tokens", chunker.EstimateTokens(raw),
	)

	cleaned := make([]string, 0, total)
	sent := 0
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if strings.TrimSpace(seg) != "" {
			if sent > 0 && a.opts.Delay > 0 {
				if err := a.sleep(ctx, a.opts.Delay); err != nil {
					return "", err
				}
			}
			out, err := a.cleanSegment(ctx, i, seg)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				return "", &ProcessingError{Segment: i, Err: err}
			}
			cleaned = append(cleaned, out)
			sent++
		}

		progress(progressStart + progressSpan*float64(i+1)/float64(total))
	}

	a.log.Info("ai clean finished", "segments", total, "requests", sent)
	return strings.Join(cleaned, "\n\n"), nil
}

func (a *AI) cleanSegment(ctx context.Context, index int, seg string) (string, error) {
	var out string
	err := retry.Do(
		func() error {
			resp, err := a.client.Complete(ctx, llm.Request{
				System:      SystemPrompt,
				Prompt:      seg,
				Temperature: aiTemperature,
			})
			if err != nil {
				return err
			}
			resp = llm.StripCodeBlock(resp)
			if strings.TrimSpace(resp) == "" {
				return errors.New("empty response")
			}
			out = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(a.opts.MaxRetries)),
		retry.RetryIf(llm.IsRetryable),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return a.opts.Backoff(int(n))
		}),
		retry.OnRetry(func(n uint, err error) {
			a.log.Warn("retrying segment", "segment", index, "attempt", n+1, "error", err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("clean segment %d: %w", index, err)
	}
	return out, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package cleaner

import (
	"context"
	"errors"
	"log/slog"
)

// Result is the outcome of a Fallback run.
type Result struct {
	Text string
	// Cleaner names the implementation that produced Text.
	Cleaner string
	// FallbackErr is the primary's failure when the secondary was used.
	FallbackErr error
}

// Fallback runs Primary and switches to Secondary when Primary reports a
// ProcessingError.
type Fallback struct {
	Primary   Cleaner
	Secondary Cleaner
	Log       *slog.Logger
}

func (f *Fallback) Run(ctx context.Context, raw string, progress ProgressFunc) (Result, error) {
	progress = Monotonic(progress)

	if f.Primary == nil {
		text, err := f.Secondary.Clean(ctx, raw, progress)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text, Cleaner: f.Secondary.Name()}, nil
	}

	text, err := f.Primary.Clean(ctx, raw, progress)
	if err == nil {
		return Result{Text: text, Cleaner: f.Primary.Name()}, nil
	}

	var procErr *ProcessingError
	if !errors.As(err, &procErr) || f.Secondary == nil {
		return Result{}, err
	}

	if f.Log != nil {
		f.Log.Warn("primary cleaner failed, falling back",
			"primary", f.Primary.Name(),
			"fallback", f.Secondary.Name(),
			"error", err,
		)
	}

	text, err2 := f.Secondary.Clean(ctx, raw, progress)
	if err2 != nil {
		return Result{}, err2
	}
	return Result{Text: text, Cleaner: f.Secondary.Name(), FallbackErr: err}, nil
}

package cleaner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgallion1/textpub/internal/doctree"
	"github.com/dgallion1/textpub/internal/merger"
	"github.com/dgallion1/textpub/internal/noise"
)

// Heuristic strips page noise and re-joins wrapped lines without any
// external service.
type Heuristic struct {
	// KnownTitles are running titles removed when they appear with a page number.
	KnownTitles []string
	Log         *slog.Logger
}

func (h *Heuristic) Name() string { return string(KindHeuristic) }

// Clean never fails on its input; it only returns ctx errors.
func (h *Heuristic) Clean(ctx context.Context, raw string, progress ProgressFunc) (string, error) {
	progress = Monotonic(progress)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := doctree.Lines(raw)
	kept, report := noise.Analyze(lines)
	if len(h.KnownTitles) > 0 {
		kept = noise.StripKnownTitles(kept, h.KnownTitles)
	}
	progress(0.3)

	if h.Log != nil {
		h.Log.Debug("noise stripped",
			"lines", len(lines),
			"page_numbers", report.PageNumbers,
			"header_lines", report.HeaderLines,
			"recurring_headers", len(report.RecurringHeaders),
		)
	}

	mode := merger.DetectMode(kept)
	out := strings.Join(merger.Paragraphs(kept, mode), "\n\n")
	progress(0.5)

	if h.Log != nil {
		h.Log.Debug("paragraphs merged", "mode", mode.String(), "chars", len(out))
	}
	return out, nil
}

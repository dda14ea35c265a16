package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/textpub/internal/epub"
	"github.com/dgallion1/textpub/internal/parser"
)

// Worker processes a single conversion job.
type Worker struct {
	conv       *Converter
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(conv *Converter, log *slog.Logger, parserOpts parser.Options) *Worker {
	return &Worker{
		conv:       conv,
		log:        log,
		parserOpts: parserOpts,
	}
}

// Process runs extract, clean, classify and package for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "cleaner", string(job.Options.Cleaner))

	// Phase 1: Extract text
	job.SetStatus(StatusExtracting, "extracting text")
	src, err := parser.ParseBytes(job.Filename, job.FileData(), w.parserOpts)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting text")
		return
	}
	job.SetFraction(0.1)
	log.Info("text extracted", "chars", len(src.Text))

	// Phase 2: Clean
	job.SetStatus(StatusCleaning, "cleaning text")
	out, err := w.conv.Convert(ctx, src, job.Options, job.SetFraction)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("conversion cancelled", "error", err)
		} else {
			log.Error("clean failed", "error", err)
		}
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cleaning text")
		return
	}
	if out.FallbackErr != nil {
		log.Warn("ai cleaner failed, used heuristic", "error", out.FallbackErr)
		job.AddError(fmt.Sprintf("ai fallback: %s", out.FallbackErr))
	}

	// Phase 3: Classify (done by Convert; record the outcome)
	job.SetStatus(StatusClassifying, "classifying blocks")
	doc := out.Document
	headings := len(doc.Headings())
	job.SetOutcome(len(doc.Blocks), headings, out.CleanerUsed)
	log.Info("blocks classified", "blocks", len(doc.Blocks), "headings", headings, "cleaner_used", out.CleanerUsed)

	// Phase 4: Package
	job.SetStatus(StatusPackaging, "creating epub")
	buf, err := epub.NewBuilder(doc).BuildToBuffer()
	if err != nil {
		log.Error("package failed", "error", err)
		job.AddError(fmt.Sprintf("epub: %s", err))
		job.SetStatus(StatusFailed, "creating epub")
		return
	}
	job.SetEPUB(buf.Bytes())
	job.SetFraction(1)

	log.Info("conversion complete", "epub_bytes", buf.Len())
	job.SetStatus(StatusCompleted, "done")
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/textpub/internal/classify"
	"github.com/dgallion1/textpub/internal/cleaner"
	"github.com/dgallion1/textpub/internal/doctree"
)

// ErrAIUnavailable is returned when the AI cleaner is requested but no
// LLM client is configured.
var ErrAIUnavailable = errors.New("ai cleaner is not configured")

// Options are the per-conversion settings supplied by the caller.
type Options struct {
	Title       string       `json:"title,omitempty"`
	Author      string       `json:"author,omitempty"`
	Language    string       `json:"language,omitempty"`
	Cleaner     cleaner.Kind `json:"cleaner"`
	KnownTitles []string     `json:"known_titles,omitempty"`
}

// Output is a classified document plus how it was cleaned.
type Output struct {
	Document    doctree.Document
	CleanedText string
	CleanerUsed string
	// FallbackErr is set when the AI cleaner failed and the heuristic ran.
	FallbackErr error
}

// Converter runs the cleaning and classification stages shared by the
// HTTP worker and the CLI.
type Converter struct {
	// AI is nil when no LLM is configured.
	AI              cleaner.Cleaner
	DefaultLanguage string
	Log             *slog.Logger
}

// Convert cleans src with the requested cleaner, falling back to the
// heuristic cleaner on an AI failure, and classifies the result.
// Progress reaches 0.9 when cleaning is done; packaging is the caller's.
func (c *Converter) Convert(ctx context.Context, src *doctree.Source, opts Options, progress cleaner.ProgressFunc) (*Output, error) {
	log := c.Log
	if log == nil {
		log = slog.Default()
	}
	progress = cleaner.Monotonic(progress)

	fb := &cleaner.Fallback{
		Secondary: &cleaner.Heuristic{KnownTitles: opts.KnownTitles, Log: log},
		Log:       log,
	}
	if opts.Cleaner == cleaner.KindAI {
		if c.AI == nil {
			return nil, ErrAIUnavailable
		}
		fb.Primary = c.AI
	}

	res, err := fb.Run(ctx, src.Text, progress)
	if err != nil {
		return nil, fmt.Errorf("clean text: %w", err)
	}
	progress(0.9)

	blocks := classify.Blocks(res.Text)

	doc := doctree.Document{
		Title:    firstNonEmpty(opts.Title, src.Title),
		Author:   strings.TrimSpace(opts.Author),
		Language: firstNonEmpty(opts.Language, c.DefaultLanguage),
		Blocks:   blocks,
	}
	return &Output{
		Document:    doc,
		CleanedText: res.Text,
		CleanerUsed: res.Cleaner,
		FallbackErr: res.FallbackErr,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

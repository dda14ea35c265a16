package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/textpub/internal/cleaner"
	"github.com/dgallion1/textpub/internal/config"
	"github.com/dgallion1/textpub/internal/parser"
	"github.com/dgallion1/textpub/internal/pipeline"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	verbose     bool
	cleanerFlag string
	knownTitles []string
)

var rootCmd = &cobra.Command{
	Use:   "textpub",
	Short: "Turn OCR text into a clean EPUB",
	Long: `textpub strips page numbers and running headers from scanned-book text,
re-joins hard-wrapped lines into paragraphs, detects chapter headings and
packages the result as an EPUB 3 book.

The heuristic cleaner needs nothing external. The ai cleaner sends the
text to the configured LLM (LLM_PROVIDER plus ANTHROPIC_API_KEY or
GEMINI_API_KEY) and falls back to the heuristic cleaner if a request fails.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("textpub %s\n", version))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")

	defaultCleaner := string(cleaner.KindHeuristic)
	if env := os.Getenv("TEXTPUB_CLEANER"); env != "" {
		defaultCleaner = env
	}
	rootCmd.PersistentFlags().StringVarP(&cleanerFlag, "cleaner", "c", defaultCleaner, "Cleaner to use (heuristic, ai)")
	rootCmd.PersistentFlags().StringArrayVar(&knownTitles, "known-title", nil, "Running title to strip next to page numbers (repeatable)")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// session holds what a command needs to run a conversion.
type session struct {
	cfg    config.Config
	log    *slog.Logger
	conv   *pipeline.Converter
	kind   cleaner.Kind
	parser parser.Options
}

func newSession() (*session, error) {
	kind, err := cleaner.ParseKind(cleanerFlag)
	if err != nil {
		return nil, err
	}

	cfg := config.Load()
	log := newLogger()

	conv := &pipeline.Converter{DefaultLanguage: cfg.DefaultLanguage, Log: log}
	if kind == cleaner.KindAI {
		ai, _, err := pipeline.NewAICleaner(cfg, log)
		if err != nil {
			return nil, err
		}
		if ai == nil {
			return nil, fmt.Errorf("ai cleaner needs %s_API_KEY for provider %s", keyPrefix(cfg.LLMProvider), cfg.LLMProvider)
		}
		conv.AI = ai
	}

	return &session{
		cfg:    cfg,
		log:    log,
		conv:   conv,
		kind:   kind,
		parser: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}, nil
}

func keyPrefix(provider string) string {
	switch provider {
	case "anthropic", "claude":
		return "ANTHROPIC"
	default:
		return "GEMINI"
	}
}

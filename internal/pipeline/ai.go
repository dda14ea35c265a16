package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/textpub/internal/cleaner"
	"github.com/dgallion1/textpub/internal/config"
	"github.com/dgallion1/textpub/internal/llm"
)

// NewAICleaner builds the LLM client and cleaner selected by cfg. Both
// are nil when no key is configured for the provider.
func NewAICleaner(cfg config.Config, log *slog.Logger) (cleaner.Cleaner, llm.Completer, error) {
	if !cfg.AIEnabled() {
		return nil, nil, nil
	}
	client, err := llm.New(cfg.LLMProvider, cfg.LLMAPIKey(), cfg.LLMModel())
	if err != nil {
		return nil, nil, fmt.Errorf("create llm client: %w", err)
	}
	ai := cleaner.NewAI(client, log, cleaner.AIOptions{
		SegmentChars: cfg.AISegmentChars,
		Delay:        cfg.AIRequestDelay,
	})
	return ai, client, nil
}

package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	openrouterx "github.com/tanakrit-w/giftwise/pkg/openrouter"
)

// Config holds the dispatcher model settings. IdeasModel optionally routes
// gift brainstorming to a different (usually cheaper) model.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	IdeasModel         string        `envconfig:"IDEAS_MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	MaxToolTurns       int           `envconfig:"MAX_TOOL_TURNS" split_words:"true" default:"8"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if c.MaxToolTurns <= 0 {
		return fmt.Errorf("%w: max tool turns must be positive", contractx.ErrValidation)
	}
	return nil
}

// IdeasModelName falls back to the dispatcher model.
func (c Config) IdeasModelName() string {
	if v := strings.TrimSpace(c.IdeasModel); v != "" {
		return v
	}
	return strings.TrimSpace(c.Model)
}

// OpenRouter maps this config onto the shared client config.
func (c Config) OpenRouter() openrouterx.Config {
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: c.MaxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
	}
}

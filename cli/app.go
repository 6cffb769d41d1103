package cli

import (
	"errors"

	"github.com/rs/zerolog/log"

	assistantx "github.com/tanakrit-w/giftwise/agent/assistant"
	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	llmx "github.com/tanakrit-w/giftwise/agent/llm"
	statex "github.com/tanakrit-w/giftwise/agent/state"
	configx "github.com/tanakrit-w/giftwise/pkg/config"
	logx "github.com/tanakrit-w/giftwise/pkg/logger"
	openrouterx "github.com/tanakrit-w/giftwise/pkg/openrouter"
	websearchx "github.com/tanakrit-w/giftwise/pkg/websearch"
)

type app struct {
	agent  *assistantx.Assistant
	store  *statex.MemoryStore
	search contractx.ProductSearcher
}

// buildApp wires the full stack: config (fatal when the LLM API key is
// missing), logging, LLM client, optional web search, session store, and
// the assistant.
func buildApp() (*app, error) {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	client := openrouterx.NewClient(llmCfg.OpenRouter())
	if client == nil {
		return nil, errors.New("failed to initialize llm client: api key is empty")
	}

	store := statex.NewMemoryStore()

	a := &app{store: store}

	opts := []assistantx.Option{}
	searchCfg := configx.MustNew[websearchx.Config]("WEBSEARCH")
	searchClient, err := websearchx.NewClient(*searchCfg)
	if err != nil {
		return nil, err
	}
	if searchClient.Enabled() {
		a.search = searchClient
		opts = append(opts, assistantx.WithSearch(searchClient))
	} else {
		log.Info().Msg("web search not configured; purchase options will degrade")
	}

	agent, err := assistantx.New(client, *llmCfg, store, opts...)
	if err != nil {
		return nil, err
	}
	a.agent = agent
	return a, nil
}

package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/mail"
	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/report"
	"github.com/sells-group/campaign-cli/internal/store"
	"github.com/sells-group/campaign-cli/pkg/groq"
)

// campaignEnv holds the initialized store and engine needed by the
// run/serve/report/classify commands.
type campaignEnv struct {
	Store  store.Store
	Engine *pipeline.Engine
}

// Close releases resources held by the environment.
func (ce *campaignEnv) Close() {
	if ce.Store != nil {
		_ = ce.Store.Close()
	}
}

// initEngine sets up the store, LLM client, mailer, and catalog, and builds
// the campaign engine. Callers should defer env.Close().
func initEngine(ctx context.Context) (*campaignEnv, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	client, err := initLLM()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	catalog, err := pipeline.LoadCatalog(cfg.Pipeline.CatalogPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	engine := pipeline.New(
		st,
		client,
		mail.NewSMTPSender(cfg.SMTP),
		report.NewGenerator(cfg.Report.Dir),
		catalog,
		cfg.Pipeline.LeadDelay(),
	)

	return &campaignEnv{Store: st, Engine: engine}, nil
}

// initLLM builds the configured text-generation client.
func initLLM() (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "groq":
		opts := []groq.Option{groq.WithModel(cfg.LLM.GroqModel)}
		if cfg.LLM.GroqBaseURL != "" {
			opts = append(opts, groq.WithBaseURL(cfg.LLM.GroqBaseURL))
		}
		return llm.NewGroq(groq.NewClient(cfg.LLM.GroqKey, opts...), cfg.LLM), nil
	case "anthropic":
		return llm.NewAnthropic(cfg.LLM), nil
	default:
		return nil, eris.Errorf("unknown llm provider %q (want groq or anthropic)", cfg.LLM.Provider)
	}
}

package cmd

import (
	"fmt"
	"io"

	"github.com/abhisek/fido/internal/config"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/llm"
	"github.com/abhisek/fido/internal/metrics"
	"github.com/abhisek/fido/internal/questions"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/workitem"
	"github.com/spf13/cobra"
)

// env is everything a command needs: settings, the store, and the
// services built over it.
type env struct {
	cfg      *config.Config
	st       *store.Store
	items    *workitem.Service
	board    *leaderboard.Service
	source   questions.Source
	analyzer feedback.Analyzer
	llmReady bool
}

// openEnv loads the config and opens the store. Call Close when done.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	tiers, err := cfg.Tiers()
	if err != nil {
		return nil, err
	}
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	kv := st.KV()
	return &env{
		cfg:   cfg,
		st:    st,
		items: workitem.NewService(kv),
		board: leaderboard.NewService(kv,
			leaderboard.WithTiers(tiers),
			leaderboard.WithPoints(cfg.Rank.Points),
			leaderboard.WithRewards(cfg.Rank.Rewards),
		),
		source:   questions.NewStaticSource(),
		analyzer: feedback.HeuristicAnalyzer{},
	}, nil
}

func (e *env) Close() error { return e.st.Close() }

// connectLLM switches the question source and language analyzer to the
// configured provider. Without one the offline bank and the heuristic
// analyzer stay in place and the reason is written to warn.
func (e *env) connectLLM(cmd *cobra.Command, warn io.Writer) {
	if e.cfg.Questions.Source == config.SourceStatic {
		return
	}
	provider, err := llm.NewProviderFromEnv(cmd.Context(), e.st.EventRepo())
	if err != nil {
		fmt.Fprintln(warn, "LLM provider not configured:", err)
		fmt.Fprintln(warn, "Using the standard question bank.")
		return
	}

	e.llmReady = true
	e.source = questions.NewLLMSource(provider, questions.Config{
		MaxTokens:   e.cfg.Questions.MaxTokens,
		Temperature: e.cfg.Questions.Temperature,
		Timeout:     e.cfg.Questions.Timeout,
	})
	if e.cfg.Language.Analyzer == config.AnalyzerLLM {
		e.analyzer = feedback.NewLLMAnalyzer(provider, e.analyzer)
	}
}

// sink stores each completed record, then awards its assessor.
func (e *env) sink() feedback.Sink {
	return feedback.MultiSink{
		feedback.NewStoreSink(e.st.FeedbackRepo()),
		e.board,
	}
}

// newSession builds a session for assessor and target. obs may be nil.
func (e *env) newSession(assessor, target string, obs feedback.Observer) (*feedback.Session, error) {
	cfg, err := e.cfg.Session(assessor, target)
	if err != nil {
		return nil, err
	}
	opts := []feedback.Option{
		feedback.WithSink(e.sink()),
		feedback.WithAnalyzer(e.analyzer),
	}
	if obs != nil {
		opts = append(opts, feedback.WithObserver(obs))
	}
	return feedback.New(cfg, metrics.NewTracedSource(e.source), opts...)
}

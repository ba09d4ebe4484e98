package cmd

import (
	"os"

	"github.com/abhisek/fido/internal/app"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.connectLLM(cmd, os.Stderr)
	assessor := assessorName(cmd, e.cfg)

	return app.Run(app.Options{
		Assessor: assessor,
		NewSession: func(target string) (*feedback.Session, error) {
			return e.newSession(assessor, target, nil)
		},
		WorkItems:   e.items,
		Leaderboard: e.board,
		Feedback:    e.st.FeedbackRepo(),
		LLMReady:    e.llmReady,
	})
}

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/abhisek/fido/internal/config"
	"github.com/abhisek/fido/internal/llm"
	"github.com/abhisek/fido/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fido",
	Short: "Guided performance feedback assistant",
	Long:  "FIDO walks you through feedback for a teammate one competency at a time, tracks work items, and keeps a points leaderboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Long += fmt.Sprintf(`

Questions and language feedback come from an LLM when one is configured.
Set one of the standard API key variables (GROQ_API_KEY, GEMINI_API_KEY,
OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY), or pick a backend
explicitly with FIDO_LLM_PROVIDER=<%s|mock> and FIDO_<NAME>_API_KEY,
FIDO_<NAME>_MODEL, FIDO_<NAME>_BASE_URL. Without a key FIDO asks its
standard questions.`, strings.Join(llm.BackendNames(), "|"))

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FIDO_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides FIDO_CONFIG env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Assessor name (defaults to config, then the OS user)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FIDO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig reads --config, else the default settings file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// assessorName picks --user, then the config, then the login name.
func assessorName(cmd *cobra.Command, cfg *config.Config) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if cfg.Assessor != "" {
		return cfg.Assessor
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "me"
}

// Package config loads FIDO's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/leaderboard"
	"gopkg.in/yaml.v3"
)

// Question source kinds.
const (
	SourceLLM    = "llm"
	SourceStatic = "static"
)

// Language analyzer kinds.
const (
	AnalyzerLLM       = "llm"
	AnalyzerHeuristic = "heuristic"
)

// Config is the settings file. Fields left out of the file keep their
// defaults.
type Config struct {
	Assessor string `yaml:"assessor"`
	Target   string `yaml:"target"`

	Competencies      []string `yaml:"competencies"`
	ReanswerPolicy    string   `yaml:"reanswer_policy"`
	AffirmativeTokens []string `yaml:"affirmative_tokens"`
	Strengths         []string `yaml:"strengths"`
	Improvements      []string `yaml:"improvements"`

	Questions QuestionsConfig `yaml:"questions"`
	Language  LanguageConfig  `yaml:"language"`
	Rank      RankConfig      `yaml:"rank"`
	Server    ServerConfig    `yaml:"server"`
}

type QuestionsConfig struct {
	Source      string        `yaml:"source"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
}

type LanguageConfig struct {
	Analyzer string `yaml:"analyzer"`
}

// RankConfig holds tiers, award values, and rewards. A last tier with
// max 0 is unbounded.
type RankConfig struct {
	Tiers   []leaderboard.Tier       `yaml:"tiers"`
	Points  leaderboard.PointsConfig `yaml:"points"`
	Rewards []leaderboard.Reward     `yaml:"rewards"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Telemetry bool   `yaml:"telemetry"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Competencies:      competency.Default().Names(),
		ReanswerPolicy:    string(competency.PolicyAccumulate),
		AffirmativeTokens: []string{"yes"},
		Strengths:         append([]string(nil), competency.DefaultStrengths...),
		Improvements:      append([]string(nil), competency.DefaultImprovements...),
		Questions: QuestionsConfig{
			Source:      SourceLLM,
			Timeout:     20 * time.Second,
			MaxTokens:   200,
			Temperature: 0.7,
		},
		Language: LanguageConfig{Analyzer: AnalyzerLLM},
		Rank: RankConfig{
			Tiers:   leaderboard.DefaultTiers().All(),
			Points:  leaderboard.DefaultPoints(),
			Rewards: leaderboard.DefaultRewards(),
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the settings file location: FIDO_CONFIG, else
// $XDG_CONFIG_HOME/fido/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("FIDO_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "fido", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []string
	if _, err := c.Catalog(); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := competency.ParsePolicy(c.ReanswerPolicy); err != nil {
		errs = append(errs, err.Error())
	}
	switch c.Questions.Source {
	case SourceLLM, SourceStatic:
	default:
		errs = append(errs, fmt.Sprintf("unknown question source %q (want llm or static)", c.Questions.Source))
	}
	if c.Questions.Timeout < 0 {
		errs = append(errs, "question timeout must be >= 0")
	}
	switch c.Language.Analyzer {
	case AnalyzerLLM, AnalyzerHeuristic:
	default:
		errs = append(errs, fmt.Sprintf("unknown language analyzer %q (want llm or heuristic)", c.Language.Analyzer))
	}
	if _, err := c.Tiers(); err != nil {
		errs = append(errs, err.Error())
	}
	seen := make(map[string]bool)
	for _, r := range c.Rank.Rewards {
		if r.ID == "" || seen[r.ID] {
			errs = append(errs, fmt.Sprintf("reward ID %q is empty or duplicated", r.ID))
		}
		seen[r.ID] = true
		if r.Cost <= 0 {
			errs = append(errs, fmt.Sprintf("reward %q: cost must be > 0", r.ID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Catalog builds the competency catalog.
func (c *Config) Catalog() (competency.Catalog, error) {
	return competency.FromNames(c.Competencies)
}

// Tiers builds the rank tiers.
func (c *Config) Tiers() (leaderboard.Tiers, error) {
	tiers := append([]leaderboard.Tier(nil), c.Rank.Tiers...)
	if n := len(tiers); n > 0 && tiers[n-1].Max == 0 && tiers[n-1].Min > 0 {
		tiers[n-1].Max = leaderboard.Unbounded
	}
	return leaderboard.NewTiers(tiers)
}

// Session returns a session config for assessor and target, falling back
// to the configured defaults when either is empty.
func (c *Config) Session(assessor, target string) (feedback.Config, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return feedback.Config{}, err
	}
	policy, err := competency.ParsePolicy(c.ReanswerPolicy)
	if err != nil {
		return feedback.Config{}, err
	}
	if assessor == "" {
		assessor = c.Assessor
	}
	if target == "" {
		target = c.Target
	}
	fc := feedback.Config{
		Assessor:          assessor,
		Target:            target,
		Catalog:           catalog,
		Policy:            policy,
		AffirmativeTokens: c.AffirmativeTokens,
		Strengths:         c.Strengths,
		Improvements:      c.Improvements,
	}
	if err := fc.Validate(); err != nil {
		return feedback.Config{}, err
	}
	return fc, nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/config"
	"github.com/abhisek/quizlens/internal/fetch"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/pipeline"
	"github.com/abhisek/quizlens/internal/store"
)

// cfg is resolved in PersistentPreRunE before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "quizlens",
	Short: "Quiz performance analyzer",
	Long: `quizlens fetches quiz attempts, summarises performance per topic and
suggests where to focus next.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args)
	},
}

// Execute runs the root command. Ctrl+C cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("db", "", "Path to SQLite database file (overrides QUIZLENS_DB env var)")
	pf.String("historical-url", "", "Endpoint serving historical quiz attempts")
	pf.String("submission-url", "", "Endpoint serving the latest submission")
	pf.Float64("threshold", 0, "Average score below which a topic is weak (0-100)")
	pf.String("log-level", "", "Log level: DEBUG, INFO, WARN or ERROR")

	rootCmd.Flags().Bool("no-llm", false, "Skip the improvement suggestions")
	rootCmd.Flags().Bool("structured", false, "Request suggestions as a structured study plan")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and installs the
// default logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("historical-url") {
		loaded.HistoricalURL, _ = flags.GetString("historical-url")
	}
	if flags.Changed("submission-url") {
		loaded.SubmissionURL, _ = flags.GetString("submission-url")
	}
	if flags.Changed("threshold") {
		loaded.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("log-level") {
		loaded.LogLevel, _ = flags.GetString("log-level")
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	cfg = loaded

	colors := colorprofile.Detect(os.Stderr, os.Environ()) >= colorprofile.ANSI
	log := logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(colors),
	)
	logger.SetDefault(log)
	cmd.SetContext(logger.NewContext(cmd.Context(), log))

	log.Debug("config: historical=%s submission=%s threshold=%g llm=%s",
		cfg.HistoricalURL, cfg.SubmissionURL, cfg.Threshold, cfg.LLM.Provider)
	return nil
}

// stdout returns the command's output writer, downsampling colours to what
// the terminal supports and stripping them when output is redirected.
func stdout(cmd *cobra.Command) io.Writer {
	return colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(fetch.New(cfg.HTTPTimeout), pipeline.Options{
		HistoricalURL: cfg.HistoricalURL,
		SubmissionURL: cfg.SubmissionURL,
		Threshold:     cfg.Threshold,
	})
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the configured database. Without a configured path it
// returns nil unless required is set, in which case the default path is
// used.
func openStore(required bool) (*store.Store, error) {
	if cfg.DBPath == "" && !required {
		return nil, nil
	}
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

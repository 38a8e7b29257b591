package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/advisor"
	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/llm"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/pipeline"
	"github.com/abhisek/quizlens/internal/report"
	"github.com/abhisek/quizlens/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarise weak and strong topics and suggest improvements",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("no-llm", false, "Skip the improvement suggestions")
	analyzeCmd.Flags().Bool("structured", false, "Request suggestions as a structured study plan")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	structured, _ := cmd.Flags().GetBool("structured")

	st, err := openStore(false)
	if err != nil {
		return err
	}
	var eventRepo store.EventRepo = store.NopEventRepo{}
	var recorder store.RunRecorder = store.NopRunRecorder{}
	if st != nil {
		defer st.Close()
		eventRepo = st.EventRepo()
		recorder = st.RunRepo()
	}

	res, err := newPipeline().Run(ctx)
	if err != nil {
		return err
	}

	r := report.NewRenderer(stdout(cmd))
	if res.HistoricalMissing {
		r.Warn("Historical data could not be loaded; the report below is empty.")
	}
	r.TopicSummary(res.Weak, res.Strong)

	var suggestions string
	if !noLLM {
		suggestions, err = suggest(ctx, eventRepo, res, structured)
		switch {
		case errors.Is(err, llm.ErrDisabled):
			r.Warn("No language model configured; set GEMINI_API_KEY or use --no-llm.")
		case err != nil:
			r.Warn(fmt.Sprintf("Error generating suggestions: %v", err))
		default:
			r.Suggestions(suggestions)
		}
	}

	best, ok := analysis.Best(res.Summaries)
	r.BestTopic(best, ok)

	saveRun(ctx, recorder, res, pipeline.KindAnalyze, suggestions)
	return nil
}

// newProvider builds the language model client; tests swap it out.
var newProvider = llm.NewProvider

// suggest asks the configured language model for improvement suggestions.
func suggest(ctx context.Context, eventRepo store.EventRepo, res *pipeline.Result, structured bool) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("advisor")

	provider, err := newProvider(ctx, cfg.LLM, eventRepo)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			log.Error("LLM provider not configured: %v", err)
		}
		return "", err
	}

	if cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
		defer cancel()
	}

	adv := advisor.New(provider)
	if structured {
		plan, err := adv.Plan(ctx, res.Weak, res.Strong)
		if err != nil {
			log.Error("study plan failed: %v", err)
			return "", err
		}
		return plan.String(), nil
	}

	text, err := adv.Suggest(ctx, res.Weak, res.Strong)
	if err != nil {
		log.Error("suggestions failed: %v", err)
		return "", err
	}
	return text, nil
}

// saveRun records res. Failures are logged; the report has already been
// written.
func saveRun(ctx context.Context, rec store.RunRecorder, res *pipeline.Result, kind, suggestions string) {
	run, err := pipeline.Save(ctx, rec, res, kind, suggestions)
	if err != nil {
		logger.FromContext(ctx).Warn("could not record run: %v", err)
		return
	}
	if run != nil {
		logger.FromContext(ctx).Debug("recorded run %s", run.ID)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/report"
	"github.com/abhisek/quizlens/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-7s  %8s  %6s  %9s  %-20s  %s\n",
			"ID", "Created", "Kind", "Attempts", "Topics", "Accuracy", "Best", "Hardest")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range runs {
			fmt.Printf("%-8s  %-19s  %-7s  %8d  %6d  %8.2f%%  %-20s  %s\n",
				truncate(r.ID, 8),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Kind,
				r.Attempts,
				r.Topics,
				r.OverallAccuracy,
				truncate(r.BestTopic, 20),
				r.HardestTopic,
			)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its topic summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		run, topics, err := s.RunRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("ID:         %s\n", run.ID)
		fmt.Printf("Time:       %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Kind:       %s\n", run.Kind)
		fmt.Printf("Historical: %s\n", run.HistoricalURL)
		if run.SubmissionURL != "" {
			fmt.Printf("Submission: %s\n", run.SubmissionURL)
		}
		fmt.Printf("Threshold:  %.2f\n", run.Threshold)
		fmt.Printf("Attempts:   %d across %d topics\n", run.Attempts, run.Topics)
		if run.Defaulted > 0 {
			fmt.Printf("Defaulted:  %d field(s)\n", run.Defaulted)
		}

		r := report.NewRenderer(stdout(cmd))
		r.KPIs(analysis.Overview{
			Attempts:        run.Attempts,
			Topics:          run.Topics,
			OverallAccuracy: run.OverallAccuracy,
			AvgSpeed:        run.AvgSpeed,
			AvgScore:        run.AvgScore,
			BestTopic:       run.BestTopic,
			HardestTopic:    run.HardestTopic,
		})
		r.Table(snapshotSummaries(topics), run.Threshold)
		if run.Suggestions != "" {
			r.Suggestions(run.Suggestions)
		}
		return nil
	},
}

var runsHistoryCmd = &cobra.Command{
	Use:   "history <topic>",
	Short: "Show how a topic's average score changed across runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		history, err := s.RunRepo().TopicHistory(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("topic history: %w", err)
		}
		if len(history) == 0 {
			fmt.Printf("No runs recorded for topic %q.\n", args[0])
			return nil
		}

		fmt.Printf("%-19s  %-8s  %8s  %9s  %9s  %s\n", "Created", "Run", "Attempts", "Avg", "Accuracy", "Weak")
		fmt.Println(strings.Repeat("─", 70))
		for _, h := range history {
			weak := ""
			if h.Weak {
				weak = "✗"
			}
			fmt.Printf("%-19s  %-8s  %8d  %9.2f  %8.2f%%  %s\n",
				h.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(h.RunID, 8), h.Attempts, h.AvgScore, h.AvgAccuracy, weak)
		}
		return nil
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.RunRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d run(s).\n", n)
		return nil
	},
}

func snapshotSummaries(snaps []store.TopicSnapshot) []analysis.TopicSummary {
	out := make([]analysis.TopicSummary, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, analysis.TopicSummary{
			Topic:           s.Topic,
			Attempts:        s.Attempts,
			AvgScore:        s.AvgScore,
			MaxScore:        s.MaxScore,
			MinScore:        s.MinScore,
			AvgAccuracy:     s.AvgAccuracy,
			AvgQuizDuration: s.AvgQuizDuration,
		})
	}
	return out
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsHistoryCmd.Flags().IntP("limit", "n", 0, "Number of runs to show (0 = all)")
	runsPruneCmd.Flags().Int("keep", 10, "Number of most recent runs to keep")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsHistoryCmd)
	runsCmd.AddCommand(runsPruneCmd)
}

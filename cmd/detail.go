package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/chart"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/pipeline"
	"github.com/abhisek/quizlens/internal/report"
	"github.com/abhisek/quizlens/internal/store"
)

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Chart performance and print a per-topic breakdown with KPIs",
	RunE:  runDetail,
}

func init() {
	detailCmd.Flags().Bool("no-charts", false, "Skip the terminal charts")
	detailCmd.Flags().Bool("table", false, "Also print the topic summary table")
	detailCmd.Flags().Int("width", 72, "Chart width in columns")
}

func runDetail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	noCharts, _ := cmd.Flags().GetBool("no-charts")
	withTable, _ := cmd.Flags().GetBool("table")
	width, _ := cmd.Flags().GetInt("width")

	st, err := openStore(false)
	if err != nil {
		return err
	}
	var recorder store.RunRecorder = store.NopRunRecorder{}
	if st != nil {
		defer st.Close()
		recorder = st.RunRepo()
	}

	res, err := newPipeline().Run(ctx)
	if err != nil {
		return err
	}

	out := stdout(cmd)
	r := report.NewRenderer(out)
	if res.HistoricalMissing {
		r.Warn("Historical data could not be loaded; the report below is empty.")
	}

	if !noCharts {
		dash, err := chart.Dashboard(res.Rows, res.Summaries, width)
		switch {
		case errors.Is(err, chart.ErrNoData):
			log.Warn("no data to chart")
		case err != nil:
			log.Error("error generating visualizations: %v", err)
			r.Warn(fmt.Sprintf("Error generating visualizations: %v", err))
		default:
			fmt.Fprintln(out, dash)
		}
	}

	if withTable {
		r.Table(res.Summaries, cfg.Threshold)
	}
	r.Detailed(res.Summaries)
	r.KPIs(res.Overview)
	r.Submission(res.Submission)

	saveRun(ctx, recorder, res, pipeline.KindDetail, "")
	return nil
}

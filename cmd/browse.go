package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse topic summaries interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newPipeline().Run(cmd.Context())
		if err != nil {
			return err
		}
		return browse.Run(res.Summaries, cfg.Threshold)
	},
}

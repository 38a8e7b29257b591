package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizlens/internal/api"
	"github.com/abhisek/quizlens/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve topic aggregates and recorded runs over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZLENS_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx).WithPrefix("serve")

	addr := cfg.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	st, err := openStore(false)
	if err != nil {
		return err
	}
	var runs api.RunSource
	if st != nil {
		defer st.Close()
		runs = st.RunRepo()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(newPipeline(), runs).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

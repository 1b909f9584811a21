package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/gforms/internal/inspect"
	httpAdapter "github.com/aretw0/gforms/pkg/adapters/http"
	"github.com/aretw0/gforms/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <url>",
	Short: "Serve a form and its submission journal over HTTP",
	Long: `Loads the form and exposes a JSON API: the form structure, its page graph,
dry-run validation of answers and the submission journal. Prometheus metrics
are served on /metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")

		form, err := loadForm(ctx, args[0], cfg, logger, observability.LogHooks(logger))
		if err != nil {
			return err
		}
		manager, closeJournal, err := journal(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeJournal(); err != nil {
				logger.Warn("failed to close journal", "err", err)
			}
		}()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(inspect.New(form, logger),
				httpAdapter.WithJournal(manager),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(logger),
			),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving form", "addr", srv.Addr, "form", form.Model().URL)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address of the submission journal")
}

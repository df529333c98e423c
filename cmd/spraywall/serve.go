package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/api"
	"github.com/example/spraywall/internal/metrics"
	"github.com/example/spraywall/internal/store"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(r *root) *cobra.Command {
	var (
		listen        string
		keep          int
		pruneInterval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the artwork API",
		Long:  "Serve GET/POST /api/artworks over the configured store, plus /healthz and /metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				r.config.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, r, keep, pruneInterval)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "address to listen on")
	cmd.Flags().IntVar(&keep, "keep", 0, "when > 0, periodically prune history to this many records per frame")
	cmd.Flags().DurationVar(&pruneInterval, "prune-interval", time.Hour, "how often to prune when --keep is set")
	return cmd
}

func serve(ctx context.Context, r *root, keep int, pruneInterval time.Duration) error {
	st, err := store.Open(ctx, r.config.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	srv := api.NewServer(st, api.WithMetrics(m), api.WithHistoryLimit(r.config.HistoryLimit))
	httpSrv := &http.Server{
		Addr:              r.config.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if keep > 0 && pruneInterval > 0 {
		go pruneLoop(ctx, st, keep, pruneInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", r.config.Listen).Str("store", store.Backend(r.config.Store)).Msg("serving artwork api")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func pruneLoop(ctx context.Context, st store.Store, keep int, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx, st, keep)
			if err != nil {
				log.Error().Err(err).Msg("prune history")
				continue
			}
			log.Info().Int64("deleted", n).Int("keep", keep).Msg("history pruned")
		}
	}
}

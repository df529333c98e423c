package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/api"
	"github.com/example/spraywall/internal/config"
	"github.com/example/spraywall/internal/logging"
	"github.com/example/spraywall/internal/notify"
	"github.com/example/spraywall/internal/platform"
	"github.com/example/spraywall/internal/store"
)

// notifySend delivers desktop notifications; tests replace it.
var notifySend notify.SendFunc = platform.Notify

type root struct {
	configPath string
	logLevel   string
	logFile    string

	config  *config.Config
	cleanup func()
}

func newRootCmd() *cobra.Command {
	r := &root{configPath: configPathOverride, cleanup: func() {}}
	cmd := &cobra.Command{
		Use:           "spraywall",
		Short:         "Spray paint onto masked frames of a shared wall",
		Long:          "spraywall paints onto one of four masked frames and shows the latest submission per frame.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			r.cleanup()
		},
	}
	cmd.PersistentFlags().StringVarP(&r.configPath, "config", "c", r.configPath, "path to config file")
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or none")
	cmd.PersistentFlags().StringVar(&r.logFile, "log-file", "", "write logs to this file instead of stdout")

	cmd.AddCommand(
		serveCmd(r),
		paintCmd(r),
		galleryCmd(r),
		slotsCmd(r),
		pruneCmd(r),
		configCmd(r),
		versionCmd(),
	)
	return cmd
}

func (r *root) setup(cmd *cobra.Command) error {
	if fileExists(".env") {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("error loading .env file: %w", err)
		}
	}
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = r.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = r.logFile
	}
	cleanup, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	r.config = cfg
	r.cleanup = cleanup
	return nil
}

func (r *root) notifier() *notify.Notifier {
	n := notify.New(r.config.NotifyPreferences(), notify.WithSender(notifySend))
	for event, on := range r.config.EnabledEvents() {
		n.Enable(event, on)
	}
	return n
}

// boundary returns the remote API when api_url is set, or an in-process
// server over the configured store.
func (r *root) boundary(ctx context.Context) (api.Boundary, func(), error) {
	if r.config.APIURL != "" {
		log.Debug().Str("api_url", r.config.APIURL).Msg("using remote api")
		return api.NewClient(r.config.APIURL), func() {}, nil
	}
	st, err := store.Open(ctx, r.config.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	srv := api.NewServer(st, api.WithHistoryLimit(r.config.HistoryLimit))
	return srv, func() { _ = st.Close() }, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

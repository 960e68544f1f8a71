package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/client"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/clientstate"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/config"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/notifier"
)

const appVersion = "dev"

// newRootCmd wires the notifier CLI. Flags override ESH_* environment variables,
// which override the optional config file.
func newRootCmd() *cobra.Command {
	v := config.NewNotifierViper()
	var cfgFile string

	root := &cobra.Command{
		Use:          "sports-notify",
		Short:        "Desktop notifications for upcoming matches",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path (yaml, json or toml)")
	flags.StringP("server", "s", "", "dashboard server base URL")
	flags.String("state-backend", "", "client state backend: file, sqlite or redis")
	flags.String("state-path", "", "file or sqlite database path")
	flags.String("redis-url", "", "redis URL for the redis backend")
	flags.Bool("native", false, "allow native desktop notifications")
	flags.Int("window", 0, "notification window in minutes")
	flags.String("log-file", "", "write logs to a rotating file")
	flags.String("log-level", "", "debug, info, warn or error")

	bindings := map[string]string{
		config.KeyServerURL:     "server",
		config.KeyStateBackend:  "state-backend",
		config.KeyStatePath:     "state-path",
		config.KeyRedisURL:      "redis-url",
		config.KeyNative:        "native",
		config.KeyWindowMinutes: "window",
		config.KeyLogFile:       "log-file",
		config.KeyLogLevel:      "log-level",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newRunCmd(v), newSubscribeCmd(v), newStatusCmd(v), newUpcomingCmd(v))
	return root
}

// app holds the wired client components for one command invocation.
type app struct {
	cfg     config.NotifierConfig
	logger  *slog.Logger
	store   clientstate.Store
	set     *notifier.NotifiedSet
	poller  *notifier.Poller
	banner  *notifier.BannerNotifier
	api     *client.API
	session *client.Session
}

func openApp(ctx context.Context, v *viper.Viper, out io.Writer) (*app, error) {
	cfg := config.LoadNotifier(v)
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "sports-notify",
		Version: appVersion,
		File:    cfg.LogFile,
	})

	if cfg.StateBackend == clientstate.BackendFile || cfg.StateBackend == clientstate.BackendSQLite {
		if dir := filepath.Dir(cfg.StatePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create state dir: %w", err)
			}
		}
	}
	store, err := clientstate.Open(ctx, clientstate.Options{
		Backend:  cfg.StateBackend,
		Path:     cfg.StatePath,
		RedisURL: cfg.RedisURL,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open client state: %w", err)
	}

	set := notifier.NewNotifiedSet(store)
	if err := set.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load notified matches: %w", err)
	}

	api := client.NewAPI(cfg.ServerURL, cfg.RequestTimeout)
	recorder := metrics.NewRecorder()
	banner := notifier.NewBannerNotifier(out, cfg.BannerDuration)
	selector := notifier.NewSelector(notifier.NewNativeNotifier(cfg.Native), banner, logger, recorder)
	plr := notifier.New(api, selector, set, notifier.Config{
		Interval:      cfg.PollInterval,
		WindowMinutes: cfg.WindowMinutes,
		Retention:     cfg.Retention,
		Location:      time.Local,
	}, logger, recorder)
	session := client.NewSession(api, store, plr, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		set:     set,
		poller:  plr,
		banner:  banner,
		api:     api,
		session: session,
	}, nil
}

// close stops polling and releases the state backend.
func (a *app) close() {
	a.poller.Stop()
	a.banner.Dismiss()
	if err := a.store.Close(); err != nil {
		logging.Warn(a.logger, "close client state failed", "error", err)
	}
}

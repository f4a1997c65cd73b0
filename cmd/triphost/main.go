package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tripscheduler/config"
	"tripscheduler/db"
	"tripscheduler/fixtures"
	"tripscheduler/host"
	"tripscheduler/logging"
)

// serveFunc runs srv on addr until ctx is done.
type serveFunc func(ctx context.Context, srv *host.Server, addr string) error

func serve(ctx context.Context, srv *host.Server, addr string) error {
	return srv.Run(ctx, addr)
}

func main() {
	if err := newRootCmd(serve).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(run serveFunc) *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "triphost",
		Short:         "Serve the desktop host commands over local HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := config.EnsureParentDir(cfg.DBPath); err != nil {
				return err
			}
			gdb, err := db.OpenSQLite(cfg.DBPath, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(gdb); err != nil {
					log.Warnw("failed to close database", "path", cfg.DBPath, "error", err)
				}
			}()

			reg := host.NewRegistry(log)
			if err := reg.Register(host.SeedMockDataCommand, host.SeedMockData(cfg.DBPath, fixtures.MockPlans, log)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Infow("starting host", "db", cfg.DBPath, "addr", cfg.HostAddr)
			return run(ctx, host.NewServer(reg, db.NewSQLStore(gdb), log), cfg.HostAddr)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", config.DefaultHostAddr, "Address to listen on")
	flags.String("db", "", "Path to the SQLite database file")
	flags.String("data-dir", "", "Directory holding the database file")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	_ = v.BindPFlag(config.KeyHostAddr, flags.Lookup("addr"))
	_ = v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))
	_ = v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	return cmd
}

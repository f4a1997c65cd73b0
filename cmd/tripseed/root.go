package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tripscheduler/config"
	"tripscheduler/db"
	"tripscheduler/fixtures"
	"tripscheduler/logging"
)

type app struct {
	v   *viper.Viper
	cfg config.Config
	log *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "tripseed",
		Short:         "Seed or reset the local trip-scheduler database",
		Long:          `tripseed creates the trips table in the local trip-scheduler store, loads the mock trip plans into it, or deletes the store file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("db", "", "Path to the SQLite database file (default: <user config dir>/"+config.AppIdentifier+"/"+config.DBFileName+")")
	flags.String("data-dir", "", "Directory holding the database file")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	_ = a.v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		a.seedCmd(),
		a.resetCmd(),
		a.schemaCmd(),
		a.migrateCmd(),
		a.listCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.log.Debugw("configuration loaded", "db", cfg.DBPath)
	return nil
}

func (a *app) seedCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema if needed and upsert the mock trip plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans := fixtures.MockPlans()
			out := cmd.OutOrStdout()

			if dryRun {
				for _, stmt := range db.TripsSchema {
					fmt.Fprintln(out, stmt)
				}
				for _, trip := range plans {
					stmt, err := db.RenderUpsert(trip)
					if err != nil {
						return fmt.Errorf("render trip %s: %w", trip.ID, err)
					}
					fmt.Fprintln(out, stmt)
				}
				return nil
			}

			if err := config.EnsureParentDir(a.cfg.DBPath); err != nil {
				return err
			}
			report, err := db.BootstrapSQLite(cmd.Context(), a.cfg.DBPath, plans, true, a.log)
			if err != nil {
				return fmt.Errorf("seeding data: %w", err)
			}
			fmt.Fprintf(out, "Database seeded successfully! (%s)\n", report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the statements instead of running them")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var backup bool
	var maxBackups int
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database file if it exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			r := db.NewResetter(afero.NewOsFs(), a.cfg.DBPath, a.log)
			if backup {
				path, err := r.Backup(maxBackups)
				if err != nil {
					return err
				}
				if path != "" {
					fmt.Fprintf(out, "Backed up database to %s\n", path)
				}
			}
			removed, err := r.Reset()
			if err != nil {
				return fmt.Errorf("resetting database: %w", err)
			}
			if removed {
				fmt.Fprintf(out, "Removed database file: %s\n", a.cfg.DBPath)
			} else {
				fmt.Fprintln(out, "Database file not found, nothing to do.")
			}
			fmt.Fprintln(out, "Database reset successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&backup, "backup", false, "Copy the database file to a timestamped backup before deleting it")
	cmd.Flags().IntVar(&maxBackups, "max-backups", db.DefaultMaxBackups, "Maximum number of backups to retain")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the trips table without loading any data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if dump {
				for _, stmt := range db.TripsSchema {
					fmt.Fprintln(out, stmt)
				}
				return nil
			}
			if err := config.EnsureParentDir(a.cfg.DBPath); err != nil {
				return err
			}
			if _, err := db.BootstrapSQLite(cmd.Context(), a.cfg.DBPath, nil, false, a.log); err != nil {
				return err
			}
			fmt.Fprintf(out, "Schema ready at %s\n", a.cfg.DBPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the schema statements instead of running them")
	return cmd
}

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back versioned migrations",
		Long:  `migrate applies the versioned migrations with goose (--up, the default) or rolls back the latest one (--down), then prints the migration status.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			up, _ := cmd.Flags().GetBool("up")
			down, _ := cmd.Flags().GetBool("down")
			dir := db.MigrateUp
			if down {
				dir = db.MigrateDown
				if cmd.Flags().Changed("up") && up {
					return fmt.Errorf("--up and --down are mutually exclusive")
				}
			}

			if err := config.EnsureParentDir(a.cfg.DBPath); err != nil {
				return err
			}
			gdb, err := db.OpenSQLite(a.cfg.DBPath, a.log)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			states, err := db.Migrate(cmd.Context(), gdb, dir, a.log)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE")
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(w, "%d\t%s\n", s.Version, state)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolP("up", "u", true, "Apply all pending migrations")
	cmd.Flags().BoolP("down", "d", false, "Roll back the latest migration")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the trips stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DBPath != ":memory:" {
				if _, err := os.Stat(a.cfg.DBPath); err != nil {
					return fmt.Errorf("database %s is not available, run seed first: %w", a.cfg.DBPath, err)
				}
			}
			gdb, err := db.OpenSQLite(a.cfg.DBPath, a.log)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			trips, err := db.NewSQLStore(gdb).ListTrips(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing trips: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTART\tDAYS\tCITIES")
			for _, t := range trips {
				cities, _ := t.Cities.Encode()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.Title, t.StartDate, t.Days, cities)
			}
			return w.Flush()
		},
	}
}

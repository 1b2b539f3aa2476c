package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/db"
	"github.com/sells-group/airport-cli/internal/monitoring"
	"github.com/sells-group/airport-cli/internal/pipeline"
	"github.com/sells-group/airport-cli/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load admitted airports and runway ends into Postgres or SQLite",
	Long:  "Runs the same conversion as convert but writes to the nasr schema in Postgres (recording the run in nasr.run_log) or to a SQLite file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyInputFlags(cmd, cfg)
		overrideString(cmd, "driver", &cfg.Store.Driver)
		overrideString(cmd, "sqlite-path", &cfg.Store.SQLitePath)
		if err := cfg.Validate("load"); err != nil {
			return err
		}
		truncate, _ := cmd.Flags().GetBool("truncate")

		in, err := pipeline.OpenInputs(cfg.Input)
		if err != nil {
			return err
		}
		defer in.Close() //nolint:errcheck

		if cfg.Store.Driver == "sqlite" {
			return loadSQLite(ctx, in, truncate)
		}
		return loadPostgres(ctx, in, truncate)
	},
}

func loadPostgres(ctx context.Context, in *pipeline.Inputs, truncate bool) error {
	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL, db.PoolConfig{MaxConns: cfg.Store.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		return eris.Wrap(err, "load")
	}

	sink := store.NewPostgresSink(pool, cfg.Store.BatchSize)
	if truncate {
		if err := sink.Truncate(ctx); err != nil {
			return eris.Wrap(err, "load")
		}
	}

	runner := pipeline.New(cfg,
		pipeline.WithRunLog(store.NewRunLog(pool)),
		pipeline.WithMetrics(monitoring.NewRunMetrics()),
	)
	res, err := runner.Run(ctx, in, sink)
	if err != nil {
		return eris.Wrap(err, "load")
	}

	airports, ends := sink.Written()
	zap.L().Info("load complete",
		zap.String("run_id", res.RunID.String()),
		zap.Int64("airports", airports),
		zap.Int64("runway_ends", ends),
	)
	return nil
}

func loadSQLite(ctx context.Context, in *pipeline.Inputs, truncate bool) error {
	sink, err := store.NewSQLiteSink(ctx, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer sink.Close() //nolint:errcheck

	if truncate {
		if err := sink.Truncate(ctx); err != nil {
			return eris.Wrap(err, "load")
		}
	}

	runner := pipeline.New(cfg, pipeline.WithMetrics(monitoring.NewRunMetrics()))
	if _, err := runner.Run(ctx, in, sink); err != nil {
		return eris.Wrap(err, "load")
	}

	airports, ends, err := sink.Count(ctx)
	if err != nil {
		return eris.Wrap(err, "load")
	}
	zap.L().Info("load complete",
		zap.String("sqlite_path", cfg.Store.SQLitePath),
		zap.Int("airports", airports),
		zap.Int("runway_ends", ends),
	)
	return nil
}

func init() {
	addInputFlags(loadCmd)
	loadCmd.Flags().String("driver", "", "store driver: postgres or sqlite")
	loadCmd.Flags().String("sqlite-path", "", "SQLite database file")
	loadCmd.Flags().Bool("truncate", false, "empty the airport tables before loading")
	rootCmd.AddCommand(loadCmd)
}

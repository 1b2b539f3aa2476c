package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/monitoring"
	"github.com/sells-group/airport-cli/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the NASR exports to airports and runway-end CSV files",
	Long:  "Streams the airport and runway exports once, keeps public paved airports with a long enough runway and writes airports.csv and runways.csv, plus an optional point shapefile.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyInputFlags(cmd, cfg)
		overrideString(cmd, "out-dir", &cfg.Output.Dir)
		overrideString(cmd, "shapefile", &cfg.Output.Shapefile)
		if err := cfg.Validate("convert"); err != nil {
			return err
		}

		in, err := pipeline.OpenInputs(cfg.Input)
		if err != nil {
			return err
		}
		defer in.Close() //nolint:errcheck

		out, err := pipeline.OpenFileSinks(cfg.Output)
		if err != nil {
			return err
		}

		runner := pipeline.New(cfg, pipeline.WithMetrics(monitoring.NewRunMetrics()))
		res, err := runner.Run(ctx, in, out.Sink())
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		zap.L().Info("convert complete",
			zap.String("out_dir", cfg.Output.Dir),
			zap.Int("airports", res.Stats.Admitted),
			zap.Int("runway_ends", res.Stats.RunwayEnds),
		)
		return nil
	},
}

func init() {
	addInputFlags(convertCmd)
	convertCmd.Flags().String("out-dir", "", "directory for airports.csv and runways.csv")
	convertCmd.Flags().String("shapefile", "", "also write a point shapefile at this path")
	rootCmd.AddCommand(convertCmd)
}

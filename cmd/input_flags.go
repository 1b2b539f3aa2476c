package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/airport-cli/internal/config"
)

// addInputFlags registers the flags that select the raw NASR inputs.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "base directory for the input files")
	cmd.Flags().String("airports", "", "airports CSV (default all_airports.csv)")
	cmd.Flags().String("runways", "", "runways CSV (default all_runways.csv)")
	cmd.Flags().String("xlsx", "", "read both tables from this NASR workbook instead of CSV")
	cmd.Flags().String("layout", "", "column layout mode: position or header")
	cmd.Flags().Bool("strict", false, "fail when either input is not sorted by site id")
}

// applyInputFlags copies explicitly set input flags over the loaded config.
func applyInputFlags(cmd *cobra.Command, c *config.Config) {
	overrideString(cmd, "dir", &c.Input.Dir)
	overrideString(cmd, "airports", &c.Input.AirportsFile)
	overrideString(cmd, "runways", &c.Input.RunwaysFile)
	overrideString(cmd, "xlsx", &c.Input.XLSXFile)
	overrideString(cmd, "layout", &c.Layout.Mode)
	if cmd.Flags().Changed("strict") {
		c.Convert.StrictOrder, _ = cmd.Flags().GetBool("strict")
	}
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

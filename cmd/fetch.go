package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the NASR exports",
	Long:  "Downloads each configured http(s) or ftp URL into the destination directory, extracting ZIP archives in place.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("url") {
			cfg.Fetch.URLs, _ = cmd.Flags().GetStringSlice("url")
		}
		overrideString(cmd, "dest", &cfg.Fetch.DestDir)
		if cmd.Flags().Changed("concurrency") {
			cfg.Fetch.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}
		if len(cfg.Fetch.URLs) == 0 {
			return eris.New("fetch: no urls (set fetch.urls or pass --url)")
		}

		timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
		mux := fetcher.NewMux(
			fetcher.HTTPOptions{
				UserAgent:    cfg.Fetch.UserAgent,
				Timeout:      timeout,
				MaxRetries:   cfg.Fetch.MaxRetries,
				RateLimiters: fetcher.DefaultRateLimiters(),
			},
			fetcher.FTPOptions{Timeout: timeout, MaxRetries: cfg.Fetch.MaxRetries},
		)

		paths, err := fetcher.FetchAll(ctx, mux, cfg.Fetch.URLs, cfg.Fetch.DestDir, cfg.Fetch.Concurrency)
		if err != nil {
			return eris.Wrap(err, "fetch")
		}

		for _, name := range []string{cfg.Input.AirportsFile, cfg.Input.RunwaysFile} {
			if _, ok := fetcher.FindFile(paths, name); !ok {
				zap.L().Warn("fetch: expected input not among downloaded files", zap.String("file", name))
			}
		}
		for _, p := range paths {
			fmt.Fprintln(os.Stdout, p)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringSlice("url", nil, "URL to download (repeatable)")
	fetchCmd.Flags().String("dest", "", "destination directory")
	fetchCmd.Flags().Int("concurrency", 0, "parallel downloads")
	rootCmd.AddCommand(fetchCmd)
}

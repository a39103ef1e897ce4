package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gisgkh/licenses-cli/internal/config"
	"github.com/gisgkh/licenses-cli/internal/fetcher"
	"github.com/gisgkh/licenses-cli/internal/licenses"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "licenses-cli",
	Short: "Housing-license registry client for dom.gosuslugi.ru",
	Long:  "Downloads per-region license archives from the GIS GKH portal, normalizes the embedded spreadsheets into typed rows, and exposes the portal's organization and house lookups.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newPortalClient builds the portal client from the loaded configuration.
func newPortalClient() *licenses.Client {
	http := fetcher.NewHTTPClient(fetcher.HTTPOptions{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
		KeepAlive: cfg.HTTP.KeepAlive,
		RateLimit: rate.Limit(cfg.HTTP.RateLimit),
		RateBurst: cfg.HTTP.RateBurst,
	})
	return licenses.NewClient(http, cfg.API.BaseURL)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

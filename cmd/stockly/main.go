// stockly - personal portfolio tracker and investing assistant
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AgusMolinaCode/stockly/internal/app"
	"github.com/AgusMolinaCode/stockly/internal/config"
	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockly",
		Short: "Track your portfolio and get plain-language investing help",
		Long: `stockly keeps track of the stocks and ETFs you hold, prices them live,
explains how the portfolio is doing and suggests picks for your goals.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(holdingsCmd())
	rootCmd.AddCommand(performanceCmd())
	rootCmd.AddCommand(narrativeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(recommendCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stockly version %s\n", version)
		},
	}
}

// loadApp reads the configuration and builds the application. Interactive
// commands log as text to stderr so stdout stays clean.
func loadApp(ctx context.Context, server bool) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	opts := logger.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Detailed: cfg.Logging.Detailed || verbose,
		Tracing:  cfg.Logging.Tracing,
		Output:   os.Stdout,
	}
	if !server {
		opts.Format = "text"
		opts.Output = os.Stderr
		if !verbose {
			opts.Level = "WARN"
		}
	}
	if err := logger.Init(opts); err != nil {
		return nil, err
	}

	return app.New(ctx, cfg)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			defer logger.Shutdown(context.Background())

			return a.Serve(cmd.Context())
		},
	}
}

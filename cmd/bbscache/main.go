package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/config"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/pkg/api"
	"github.com/goran-ethernal/BBSCache/pkg/bbscache"
	pkgconfig "github.com/goran-ethernal/BBSCache/pkg/config"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║            BBSCache v%s                ║
║   BBS article, comment and link cache     ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath    string
	serveInterval time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bbscache",
	Short: "BBSCache - BBS event cache and short link issuer",
	Long: `BBSCache scans the BBS contract for Posted and Replied events, stores one record per
event and issues a short link for every article through the BBSCache contract.
Without a subcommand it runs a single cache pass and exits.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runPass,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API and metrics, optionally running passes periodically",
	Long: `Serve starts the metrics and API servers from the configuration. With --interval it also
runs a cache pass immediately and then once per interval; a failed pass is logged and retried
on the next tick.`,
	RunE: runServe,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reflector := &jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
		schema := reflector.Reflect(&pkgconfig.Config{})
		schema.Title = "BBSCache configuration"

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "run a cache pass every interval (0 disables passes)")

	rootCmd.AddCommand(serveCmd, schemaCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runPass(cmd *cobra.Command, _ []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logger.NewComponentLoggerFromConfig(common.ComponentRunner, cfg.LoggerConfig())

	c, err := bbscache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warnf("failed to close cache: %v", err)
		}
	}()

	report, err := c.RunPass(ctx)
	if err != nil {
		return err
	}

	for _, stream := range report.Streams {
		log.Infof("%s: events=%d, created=%d, skipped=%d, linked=%d, checkpoint=%d",
			stream.Stream, stream.Events, stream.Created, stream.Skipped, stream.Linked, stream.Checkpoint)
	}

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logger.NewComponentLoggerFromConfig(common.ComponentRunner, cfg.LoggerConfig())

	c, err := bbscache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warnf("failed to close cache: %v", err)
		}
	}()

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := metricsServer.Stop(stopCtx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
	}

	apiDone := make(chan error, 1)
	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, c.Store(), c.Checkpoints(), c,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.LoggerConfig()))
		go func() {
			apiDone <- apiServer.Start(ctx)
		}()
	} else {
		close(apiDone)
	}

	if serveInterval > 0 {
		schedulePasses(ctx, log, c, serveInterval)
	} else {
		<-ctx.Done()
	}

	log.Info("shutting down")

	if err := <-apiDone; err != nil {
		return err
	}
	return nil
}

// schedulePasses runs a pass now and then every interval until ctx is done.
// A running pass finishes before the next one starts.
func schedulePasses(ctx context.Context, log *logger.Logger, c *bbscache.Cache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.RunPass(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("cache pass failed, retrying in %s: %v", interval, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

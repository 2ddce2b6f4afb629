package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"brickvault/app"
	"brickvault/config"
	"brickvault/db"
)

var (
	verbose    bool
	configPath string
	logger     *zap.Logger
	logLevel   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// rootCmd represents the base command; with no subcommand it serves
var rootCmd = &cobra.Command{
	Use:   "brickvault",
	Short: "BrickVault - web front end for a LEGO collection API",
	Long: `BrickVault renders the collection, wishlist, catalogue, price tool,
blog and admin screens of a LEGO collection site on top of its JSON API.

Run without arguments to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path := config.LoadDotEnv(); path != "" {
			fmt.Fprintf(os.Stderr, "loaded environment from %s\n", path)
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		zapConfig.Level = logLevel
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// serveCmd starts the web server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg.Masked())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "brickvault.yaml", "Path to the YAML config file (optional)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve runs the HTTP server and the session janitor until ctx is cancelled
func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !verbose && cfg.Logging.Level != "" {
		if err := logLevel.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			zap.S().Warnf("⚠️ Unknown log level %q, keeping %s", cfg.Logging.Level, logLevel.Level())
		}
	}

	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		application.Sessions.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		zap.S().Infof("🚀 Server starting on %s (API %s)", addr, cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zap.S().Info("🛑 Shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

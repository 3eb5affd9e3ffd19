package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-docsync/pkg/api"
	"github.com/adfharrison1/go-docsync/pkg/bridge"
	"github.com/adfharrison1/go-docsync/pkg/config"
	"github.com/adfharrison1/go-docsync/pkg/manager"
	"github.com/adfharrison1/go-docsync/pkg/server"
	"github.com/adfharrison1/go-docsync/pkg/storage"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "go-docsync",
	Short: "go-docsync - named document databases with peer replication",
	Long: `go-docsync manages named embedded document databases, serves document
CRUD and equality queries through a call bridge, and replicates databases
with other go-docsync servers.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the go-docsync server which provides:
- POST /call/{method} for the call bridge
- GET/PUT /db/{db}/_docs for replicating peers
- GET /health`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file path (toml, yaml or json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("data-dir", ".", "directory holding the database files")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	base, err := newLogger(cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer base.Sync()
	logger := base.Sugar()

	storageOptions := []storage.EngineOption{
		storage.WithDataDir(cfg.Storage.DataDir),
		storage.WithReplicationInterval(cfg.Replication.Interval),
		storage.WithLogger(logger.Named("storage")),
	}
	if cfg.Storage.BackgroundSave > 0 {
		storageOptions = append(storageOptions, storage.WithBackgroundSave(cfg.Storage.BackgroundSave))
		logger.Infow("Background save enabled", "interval", cfg.Storage.BackgroundSave)
	}
	engine := storage.NewEngine(storageOptions...)
	engine.StartBackgroundWorkers()

	m := manager.New(engine, logger.Named("manager"), manager.WithStrictDirection(cfg.Replication.StrictDirection))
	handler := api.NewHandler(bridge.New(m, logger.Named("bridge")), engine, logger.Named("api"))
	srv := server.NewServer(cfg.Addr(), handler, logger.Named("server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := m.Session.Stop(shutdownCtx); err != nil {
			logger.Warnw("Failed to stop replicator", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	serveErr := g.Wait()

	// closing the registry saves every open database
	if err := m.Registry.Close(); err != nil {
		logger.Errorw("Failed to close databases", "error", err)
	}
	if err := engine.Close(); err != nil {
		logger.Errorw("Failed to close storage engine", "error", err)
	}
	logger.Infow("Server exited")
	return serveErr
}

package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/playtoearn/coinserver/internal/api"
	"github.com/playtoearn/coinserver/internal/config"
	"github.com/playtoearn/coinserver/internal/factory"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the coin accrual server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, listenAddr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", DefaultConfig().ConfigPath, "Config file path (env: COINSERVER_CONFIG)")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address, overrides config")

	return cmd
}

func runServe(configPath, listenAddr string) error {
	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	svcCfg := config.Load(configPath, logger)
	if svcCfg.ExtendedLog && level > slog.LevelDebug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}
	if listenAddr != "" {
		svcCfg.ListenAddr = listenAddr
	}

	app, err := factory.New(svcCfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		BaseContext: ctx,
		Roster:      app.Roster,
		Idles:       app.Idles,
		Commands:    app.Commands,
		Mailbox:     app.Mailbox,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = svcCfg.ListenAddr
	server := api.NewServer(router, serverConfig, logger)

	// Run the accrual scheduler alongside the server
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Scheduler.Run(ctx)
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
			wg.Wait()
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			wg.Wait()
			return err
		}
	}

	wg.Wait()
	logger.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kioskflow/kioskflow/internal/clients"
	"github.com/kioskflow/kioskflow/internal/config"
	"github.com/kioskflow/kioskflow/internal/logging"
	"github.com/kioskflow/kioskflow/internal/metrics"
	"github.com/kioskflow/kioskflow/internal/server"
	"github.com/kioskflow/kioskflow/pkg/adapters/file"
	"github.com/kioskflow/kioskflow/pkg/adapters/memory"
	"github.com/kioskflow/kioskflow/pkg/adapters/redis"
	"github.com/kioskflow/kioskflow/pkg/persistence/middleware"
	"github.com/kioskflow/kioskflow/pkg/ports"
	"github.com/kioskflow/kioskflow/pkg/registry"
	"github.com/kioskflow/kioskflow/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk HTTP server",
	Long:  `Starts the kioskflow engine in server mode, exposing the session and delivery API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		if err := runServe(cmd, cfgPath); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "config.yaml", "Path to the configuration file")
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("flows") {
		cfg.FlowsDir, _ = cmd.Flags().GetString("flows")
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Listen.Port = port
	}

	log := logging.New(logging.ParseLevel(cfg.LogLevel))
	log = log.With("env", cfg.Env)

	flows, err := file.New(cfg.FlowsDir, file.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to load flows from %s: %w", cfg.FlowsDir, err)
	}

	var store ports.StateStore = memory.NewStore()
	sessionOpts := []session.Option{session.WithLogger(log)}
	if cfg.Redis.Enabled {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Address, err)
		}
		store = redis.NewFromClient(client, redis.WithTTL(cfg.Redis.SessionTTL))
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(client, "kioskflow:lock:")))
		log.Info("sessions backed by redis", "address", cfg.Redis.Address)
	}

	store, err = wrapStore(store, cfg, log)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, sessionOpts...)

	email := clients.NewEmailClient(cfg.Email.BaseURL, cfg.Email.From, cfg.ClientTimeout)

	sinks := registry.NewRegistry()
	sinks.Register("log", registry.NewLogSink(log))
	if email.Enabled() && cfg.Email.AutoSendField != "" {
		sinks.Register("email", registry.NewEmailSink(email, cfg.Email.AutoSendField, log))
	}

	srv, err := server.New(server.Options{
		Logger:        log,
		Flows:         flows,
		Sessions:      sessions,
		Metrics:       metrics.New(),
		Email:         email,
		PDF:           clients.NewPDFClient(cfg.PDF.BaseURL, cfg.ClientTimeout),
		Queue:         clients.NewQueueClient(cfg.Queue.BaseURL, cfg.ClientTimeout),
		DefaultLocale: cfg.DefaultLocale,
		Sink:          sinks.All(),
	})
	if err != nil {
		return err
	}

	return listenAndServe(httpSrv(cfg, srv), log)
}

// wrapStore layers the configured at-rest protections over the store.
func wrapStore(store ports.StateStore, cfg *config.Config, log *slog.Logger) (ports.StateStore, error) {
	var middlewares []middleware.Middleware

	if len(cfg.Privacy.PIIPatterns) > 0 {
		middlewares = append(middlewares, middleware.NewPIIMiddleware(cfg.Privacy.PIIPatterns))
		log.Info("pii redaction enabled", "patterns", len(cfg.Privacy.PIIPatterns))
	}

	if cfg.Privacy.EncryptionKey != "" {
		active, err := base64.StdEncoding.DecodeString(cfg.Privacy.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(active) != 32 {
			return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(active))
		}
		var fallbacks [][]byte
		for _, enc := range cfg.Privacy.FallbackKeys {
			key, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return nil, fmt.Errorf("invalid fallback key: %w", err)
			}
			fallbacks = append(fallbacks, key)
		}
		middlewares = append(middlewares, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
		log.Info("session encryption enabled", "fallback_keys", len(fallbacks))
	}

	return middleware.Chain(store, middlewares...), nil
}

func httpSrv(cfg *config.Config, srv *server.Server) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Router(),
	}
}

func listenAndServe(httpSrv *http.Server, log *slog.Logger) error {
	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("starting kioskflow server", "addr", httpSrv.Addr)
		serverErrors <- httpSrv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		log.Info("starting shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown did not complete", "error", err)
			if err := httpSrv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		log.Info("server stopped gracefully")
	}

	return nil
}

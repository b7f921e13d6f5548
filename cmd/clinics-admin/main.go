package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/api"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/clinics"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/geoloc"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/logger"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/middleware"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/store"
)

func main() {
	// .env is optional; flags and real environment win either way.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "clinics-admin",
		Usage: "Admin gateway for the Masters Clinics dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "api-base-url",
				Aliases: []string{"a"},
				Value:   config.DefaultAPIBaseURL,
				Usage:   "Clinics backend base URL",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres URL for the submission journal (optional)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Requests per minute per IP",
				EnvVars: []string{"RATE_LIMIT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	port := c.String("port")

	client, err := clinics.NewClient(c.String("api-base-url"))
	if err != nil {
		return fmt.Errorf("create clinics client: %w", err)
	}

	var journal *store.Store
	if dbURL := c.String("database-url"); dbURL != "" {
		journal, err = store.Open(c.Context, dbURL)
		if err != nil {
			return fmt.Errorf("open submission journal: %w", err)
		}
		defer journal.Close()
		slog.Info("submission journal enabled")
	} else {
		slog.Info("no database configured, submission journal disabled")
	}

	h, err := api.New(client, geoloc.New(), journal)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}

	limiter, err := middleware.NewRateLimiter(c.Int("rate-limit"), []string{"/health"})
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}
	defer limiter.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	apiMux := http.NewServeMux()
	h.RegisterRoutes(apiMux)
	mux.Handle("/api/", middleware.Auth(apiMux))

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      limiter.Middleware(middleware.CacheControl(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

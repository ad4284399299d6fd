package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/troymork/Unburden-America-sub000/internal/api"
	"github.com/troymork/Unburden-America-sub000/internal/config"
	"github.com/troymork/Unburden-America-sub000/internal/logging"
	"github.com/troymork/Unburden-America-sub000/internal/mcp"
	"github.com/troymork/Unburden-America-sub000/internal/orchestrator"
	"github.com/troymork/Unburden-America-sub000/internal/repository"
	tlsutil "github.com/troymork/Unburden-America-sub000/internal/tls"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "orchestrator",
		Short: "Campaign workflow orchestration service",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and MCP server",
		RunE:  runServe,
	}

	routeCmd := &cobra.Command{
		Use:   "route [intent]",
		Short: "Route one intent, wait for the workflow and print its status",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoute,
	}
	routeCmd.Flags().String("priority", "medium", "Workflow priority: low, medium, high or critical")

	root.AddCommand(serveCmd, routeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Initialize logging
	logger := logging.NewLogger()

	// Load configuration
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	logger.Info("Starting Campaign Orchestration Service")

	// Build the orchestrator with the optional archive store
	opts := []orchestrator.Option{
		orchestrator.WithTaskTimeout(time.Duration(cfg.Orchestrator.TaskTimeoutSeconds) * time.Second),
	}
	var dbPool *pgxpool.Pool
	if cfg.Archive.Enable {
		dbPool, err = initDatabase(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize archive database: %v", err)
			return fmt.Errorf("archive database initialization failed: %w", err)
		}
		defer dbPool.Close()
		opts = append(opts, orchestrator.WithArchiveStore(repository.NewPostgresArchiveStore(dbPool)))
		logger.Info("Archive database connected")
	}

	orch, err := orchestrator.New(logger, opts...)
	if err != nil {
		logger.Error("Failed to build orchestrator: %v", err)
		return fmt.Errorf("orchestrator initialization failed: %w", err)
	}
	logger.Info("Orchestrator initialized")

	// Create Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("campaign-orchestrator"))

	// Mount REST API handlers
	apiGroup := e.Group("/api/v1")
	apiServer := api.NewServer(orch)
	apiServer.RegisterRoutes(apiGroup)
	e.GET("/healthz", echo.WrapHandler(http.HandlerFunc(api.HandleHealth)))

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(orch)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	// expose OpenAPI spec and Swagger UI
	e.GET("/openapi.yaml", echo.WrapHandler(api.SpecHandler()))
	e.GET("/docs", echo.WrapHandler(api.SwaggerHandler()))

	// Create HTTP server
	addr := cfg.Server.Addr
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- server.ListenAndServe()
				return
			}
			// generate if missing and hostnames provided
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					if err := tlsutil.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received: %v", sig)

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error: %v", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
	return nil
}

func runRoute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := logging.NewLogger()

	priorityFlag, _ := cmd.Flags().GetString("priority")

	orch, err := orchestrator.New(logger)
	if err != nil {
		return fmt.Errorf("orchestrator initialization failed: %w", err)
	}

	result, err := orch.RouteIntent(ctx, args[0], nil, models.ParsePriority(priorityFlag), nil)
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	if err := orch.Wait(waitCtx, result.WorkflowID); err != nil {
		return fmt.Errorf("waiting for workflow %s: %w", result.WorkflowID, err)
	}

	status, err := orch.WorkflowStatus(ctx, result.WorkflowID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing archive database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Archive.Host, cfg.Archive.Port, cfg.Archive.User, cfg.Archive.Password, cfg.Archive.Name, cfg.Archive.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

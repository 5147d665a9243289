package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giraone/jobadmin/config"
	"github.com/giraone/jobadmin/internal/adapters/oidc"
	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/core"
	"github.com/giraone/jobadmin/internal/data"
	httpx "github.com/giraone/jobadmin/internal/http"
	"github.com/giraone/jobadmin/internal/observability/metrics"
	"github.com/giraone/jobadmin/internal/service"
	"github.com/redis/go-redis/v9"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds the application services of the enabled modes.
// Members of disabled modes stay nil.
type ServiceContainer struct {
	JobRecords *service.JobRecordService
	Processes  *service.ProcessService
	UI         *httpx.UIHandlers
	Health     *httpx.HealthHandlers
	Metrics    *metrics.Recorder
}

// ServiceDeps groups dependencies for service initialization. DB is required
// for the api mode; RedisClient is optional.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the services of every enabled mode.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	var c ServiceContainer
	if cfg.Observability.MetricsEnabled {
		c.Metrics = metrics.NewRecorder()
	}
	c.Health = &httpx.HealthHandlers{Checks: map[string]httpx.HealthCheck{}, Logger: logger}

	if cfg.IsAPIEnabled() {
		if deps.DB == nil {
			return ServiceContainer{}, errors.New("api mode requires a database")
		}
		processRepo := data.NewProcessRepo(deps.DB)
		c.Processes = service.NewProcessService(service.ProcessServiceOptions{Repo: processRepo, Logger: logger})
		c.JobRecords = service.NewJobRecordService(service.JobRecordServiceOptions{
			Repo:      data.NewJobRecordRepo(deps.DB),
			Processes: processRepo,
			Logger:    logger,
		})
		c.Health.Checks["database"] = deps.DB.PingContext
	}

	if cfg.IsUIEnabled() {
		ui, err := newUIHandlers(ctx, deps, c.Metrics, logger)
		if err != nil {
			return ServiceContainer{}, err
		}
		c.UI = ui
	}

	if deps.RedisClient != nil {
		c.Health.Checks["redis"] = data.NewRedisCacheRepo(deps.RedisClient).Health
	}
	return c, nil
}

func newUIHandlers(
	ctx context.Context,
	deps *ServiceDeps,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) (*httpx.UIHandlers, error) {
	cfg := deps.Config
	jobRecords, processes, err := NewBackendClients(ctx, cfg.Backend, recorder, logger)
	if err != nil {
		return nil, err
	}

	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: httpx.TemplateFS(cfg.IsDev, logger),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	var optionsCache *core.ProcessOptionsCache
	if cfg.Cache.Enabled && deps.RedisClient != nil {
		optionsCache = core.NewProcessOptionsCache(core.ProcessOptionsCacheOptions{
			Cache:  data.NewRedisCacheRepo(deps.RedisClient),
			TTL:    cfg.Cache.ProcessOptionsTTL,
			Logger: logger,
		})
	}

	return &httpx.UIHandlers{
		T:              renderer,
		JobRecords:     jobRecords,
		Processes:      processes,
		ProcessOptions: optionsCache,
		PageSize:       cfg.UI.PageSize,
		IsDev:          cfg.IsDev,
		Logger:         logger,
	}, nil
}

// NewBackendClients creates the REST clients of the job backend. With OAuth
// configured, requests carry client-credentials bearer tokens.
func NewBackendClients(
	ctx context.Context,
	cfg config.BackendConfig,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) (*client.JobRecordClient, *client.ProcessClient, error) {
	clientCfg := client.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	}
	if recorder != nil {
		clientCfg.Metrics = recorder
	}

	if cfg.OAuth.Enabled() {
		creds, err := oidc.NewClientCredentials(ctx, oidc.ClientCredentialsConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Scope:        cfg.OAuth.Scopes,
			IssuerURL:    cfg.OAuth.IssuerURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("backend oauth: %w", err)
		}
		// The token source outlives ctx; it refreshes for the lifetime of the process.
		clientCfg.HTTPClient = creds.HTTPClient(context.WithoutCancel(ctx), cfg.Timeout)
		logger.InfoContext(ctx, "backend calls use client credentials", "token_url", creds.TokenURL())
	}

	return client.NewJobRecordClient(clientCfg), client.NewProcessClient(clientCfg), nil
}

// ServiceOrchestrationConfig contains configuration for running services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config with AppConfig is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{Context: context.Background(), Server: server, Logger: logger})
	case err := <-errCh:
		logger.Error("service error", "error", err)
		if stopErr := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Logger:  logger,
		}); stopErr != nil && !errors.Is(stopErr, http.ErrServerClosed) {
			logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

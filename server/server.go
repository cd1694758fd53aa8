// Package server wires the echo HTTP server: middleware, API routes and
// the metrics endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/ai"
	"github.com/charecktowa/thesis-match/internal/metrics"
	"github.com/charecktowa/thesis-match/internal/profile"
	"github.com/charecktowa/thesis-match/recommend"
	apiv1 "github.com/charecktowa/thesis-match/server/router/api/v1"
	"github.com/charecktowa/thesis-match/store"
)

// Server is the HTTP server for the recommendation service.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

// NewServer assembles the server: embedding provider (when configured),
// recommendation engine, metrics exporter and the API routes.
func NewServer(_ context.Context, instanceProfile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	// The embedding provider is optional: without an API key the id-based
	// and analytic endpoints keep working.
	var embedder ai.EmbeddingService
	if instanceProfile.IsEmbeddingConfigured() {
		embeddingConfig := ai.NewEmbeddingConfigFromProfile(instanceProfile)
		service, err := ai.NewEmbeddingService(embeddingConfig)
		if err != nil {
			return nil, errors.Wrap(err, "create embedding service")
		}
		embedder = service
		slog.Info("embedding service initialized",
			"model", embeddingConfig.Model,
			"dimensions", embeddingConfig.Dimensions,
		)
	} else {
		slog.Warn("no embedding API key configured, text queries disabled")
	}

	engine := recommend.NewEngine(storeInstance, embedder, int32(instanceProfile.ReferenceYear))
	exporter := metrics.NewExporter(metrics.DefaultConfig())

	server := &Server{
		Profile:    instanceProfile,
		Store:      storeInstance,
		echoServer: echoServer,
		apiService: apiv1.NewAPIV1Service(instanceProfile, storeInstance, engine, exporter),
	}

	server.apiService.RegisterRoutes(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return server, nil
}

// Start begins serving in the background. Errors other than a clean
// shutdown surface asynchronously in the log.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}

// Package v1 exposes the entity and recommendation routes under /api/v1.
package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/internal/metrics"
	"github.com/charecktowa/thesis-match/internal/profile"
	"github.com/charecktowa/thesis-match/recommend"
	"github.com/charecktowa/thesis-match/store"
)

// APIV1Service implements the /api/v1 routes.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *recommend.Engine
	Metrics *metrics.Exporter
}

// NewAPIV1Service creates the API service. The metrics exporter may be nil.
func NewAPIV1Service(instanceProfile *profile.Profile, storeInstance *store.Store, engine *recommend.Engine, exporter *metrics.Exporter) *APIV1Service {
	return &APIV1Service{
		Profile: instanceProfile,
		Store:   storeInstance,
		Engine:  engine,
		Metrics: exporter,
	}
}

// RegisterRoutes mounts every route group on the echo server.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	apiGroup := echoServer.Group("/api/v1")

	apiGroup.GET("/professors", s.listProfessors)
	apiGroup.GET("/professors/:id", s.getProfessor)
	apiGroup.GET("/professors/:id/research", s.listProfessorResearch)
	apiGroup.GET("/professors/:id/theses", s.listProfessorTheses)

	apiGroup.GET("/students", s.listStudents)
	apiGroup.GET("/students/:id", s.getStudent)
	apiGroup.GET("/students/:id/laboratories", s.listStudentLaboratories)
	apiGroup.GET("/students/:id/thesis", s.getStudentThesis)
	apiGroup.GET("/students/program/:program", s.listStudentsByProgram)
	apiGroup.GET("/students/status/:status", s.listStudentsByStatus)

	apiGroup.POST("/recommend", s.observed("recommend", s.recommendByText))
	apiGroup.POST("/similar", s.observed("similar", s.findSimilar))
	apiGroup.POST("/cluster-analysis", s.observed("cluster_analysis", s.clusterAnalysis))
	apiGroup.GET("/trends", s.observed("trends", s.trends))
	apiGroup.GET("/professor-similarity/:id1/:id2", s.observed("professor_similarity", s.professorSimilarity))
	apiGroup.GET("/recommendations/stats", s.observed("stats", s.recommendationStats))
	apiGroup.GET("/recommendations/health", s.recommendationHealth)
}

// observed wraps a handler with per-operation metrics.
func (s *APIV1Service) observed(operation string, handler echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		began := time.Now()
		err := handler(c)
		if s.Metrics != nil {
			s.Metrics.RecordOperation(operation, time.Since(began), err == nil)
		}
		return err
	}
}

// mapEngineError translates the core error taxonomy into HTTP errors:
// rejected input becomes 400, a failing embedding provider 502, everything
// else an opaque 500.
func mapEngineError(err error, operation string) error {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, recommend.ErrEmbeddingUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		slog.Error("operation failed", "operation", operation, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}

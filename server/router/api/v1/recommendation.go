package v1

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/charecktowa/thesis-match/recommend"
)

const (
	defaultSearchK     = 5
	defaultNClusters   = 5
	defaultTrendsTopK  = 10
	maxSearchK         = 100
	maxClusterRequests = 50
)

type recommendRequest struct {
	Query                   string `json:"query"`
	K                       int    `json:"k"`
	IncludeTheses           *bool  `json:"include_theses"`
	IncludeResearchProducts *bool  `json:"include_research_products"`
}

type recommendResponse struct {
	*recommend.Recommendation
	TotalResults int `json:"total_results"`
}

func (s *APIV1Service) recommendByText(c echo.Context) error {
	request := &recommendRequest{K: defaultSearchK}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	includeTheses := request.IncludeTheses == nil || *request.IncludeTheses
	includeProducts := request.IncludeResearchProducts == nil || *request.IncludeResearchProducts

	result, err := s.Engine.RecommendByText(c.Request().Context(),
		request.Query, clampK(request.K), includeTheses, includeProducts)
	if err != nil {
		return mapEngineError(err, "recommend")
	}
	return c.JSON(http.StatusOK, &recommendResponse{
		Recommendation: result,
		TotalResults:   len(result.Theses) + len(result.ResearchProducts),
	})
}

type similarRequest struct {
	ThesisID          *int32 `json:"thesis_id"`
	ResearchProductID *int32 `json:"research_product_id"`
	K                 int    `json:"k"`
	SearchType        string `json:"search_type"`
}

func (s *APIV1Service) findSimilar(c echo.Context) error {
	request := &similarRequest{K: defaultSearchK}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	result, err := s.Engine.FindSimilarByID(c.Request().Context(),
		recommend.Reference{
			ThesisID:          request.ThesisID,
			ResearchProductID: request.ResearchProductID,
		},
		clampK(request.K),
		recommend.SearchType(request.SearchType))
	if err != nil {
		return mapEngineError(err, "similar")
	}
	return c.JSON(http.StatusOK, result)
}

type clusterRequest struct {
	EntityType string `json:"entity_type"`
	NClusters  int    `json:"n_clusters"`
	MinYear    *int32 `json:"min_year"`
	MaxYear    *int32 `json:"max_year"`
}

func (s *APIV1Service) clusterAnalysis(c echo.Context) error {
	request := &clusterRequest{
		EntityType: string(recommend.EntityTheses),
		NClusters:  defaultNClusters,
	}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if request.NClusters > maxClusterRequests {
		return echo.NewHTTPError(http.StatusBadRequest, "too many clusters requested")
	}

	var years *recommend.YearRange
	if request.MinYear != nil || request.MaxYear != nil {
		years = &recommend.YearRange{MinYear: request.MinYear, MaxYear: request.MaxYear}
	}
	result, err := s.Engine.ClusterTitles(c.Request().Context(),
		recommend.EntityKind(request.EntityType), request.NClusters, years)
	if err != nil {
		return mapEngineError(err, "cluster_analysis")
	}
	return c.JSON(http.StatusOK, result)
}

type trendsResponse struct {
	YearsAnalyzed []int32                         `json:"years_analyzed"`
	Trends        map[int32]recommend.TrendBucket `json:"trends"`
	TotalProducts int                             `json:"total_products"`
}

func (s *APIV1Service) trends(c echo.Context) error {
	years, err := parseYears(c.QueryParam("years"))
	if err != nil {
		return err
	}
	topK := defaultTrendsTopK
	if raw := c.QueryParam("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid top_k: "+raw)
		}
		topK = parsed
	}

	trends, err := s.Engine.Trends(c.Request().Context(), years, topK)
	if err != nil {
		return mapEngineError(err, "trends")
	}

	response := &trendsResponse{Trends: trends}
	for year, bucket := range trends {
		response.YearsAnalyzed = append(response.YearsAnalyzed, year)
		response.TotalProducts += bucket.TotalProducts
	}
	sortYears(response.YearsAnalyzed)
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) professorSimilarity(c echo.Context) error {
	id1, err := pathID(c, "id1")
	if err != nil {
		return err
	}
	id2, err := pathID(c, "id2")
	if err != nil {
		return err
	}
	result, err := s.Engine.CompareProfessors(c.Request().Context(), id1, id2)
	if err != nil {
		return mapEngineError(err, "professor_similarity")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) recommendationStats(c echo.Context) error {
	stats, err := s.Engine.Stats(c.Request().Context())
	if err != nil {
		return mapEngineError(err, "stats")
	}
	return c.JSON(http.StatusOK, stats)
}

type healthResponse struct {
	Status              string   `json:"status"`
	EmbeddingConfigured bool     `json:"embedding_configured"`
	Features            []string `json:"features"`
}

func (s *APIV1Service) recommendationHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, &healthResponse{
		Status:              "healthy",
		EmbeddingConfigured: s.Profile.IsEmbeddingConfigured(),
		Features: []string{
			"semantic_search",
			"similar_items",
			"cluster_analysis",
			"trend_analysis",
			"professor_similarity",
		},
	})
}

// clampK keeps requested result counts inside a sane window.
func clampK(k int) int {
	if k <= 0 {
		return defaultSearchK
	}
	if k > maxSearchK {
		return maxSearchK
	}
	return k
}

func parseYears(raw string) ([]int32, error) {
	if raw == "" {
		return nil, nil
	}
	var years []int32
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		year, err := strconv.ParseInt(piece, 10, 32)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid year: "+piece)
		}
		years = append(years, int32(year))
	}
	return years, nil
}

func sortYears(years []int32) {
	sort.Slice(years, func(a, b int) bool { return years[a] < years[b] })
}

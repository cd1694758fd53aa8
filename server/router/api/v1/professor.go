package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/charecktowa/thesis-match/store"
)

// Professor is the API projection of a faculty member.
type Professor struct {
	ID             int32   `json:"id"`
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	ProfileURL     *string `json:"profile_url"`
	LaboratoryID   int32   `json:"laboratory_id"`
	LaboratoryName string  `json:"laboratory_name"`
}

// ResearchProduct is the API projection of one research product.
type ResearchProduct struct {
	ID            int32  `json:"id"`
	Title         string `json:"title"`
	Site          string `json:"site"`
	Year          int32  `json:"year"`
	ProfessorID   int32  `json:"professor_id"`
	ProfessorName string `json:"professor_name"`
	HasEmbedding  bool   `json:"has_embedding"`
}

// Thesis is the API projection of one thesis.
type Thesis struct {
	ID           int32   `json:"id"`
	Title        string  `json:"title"`
	StudentID    int32   `json:"student_id"`
	StudentName  string  `json:"student_name"`
	Advisor1Name string  `json:"advisor1_name"`
	Advisor2Name *string `json:"advisor2_name"`
	HasEmbedding bool    `json:"has_embedding"`
}

func convertProfessor(p *store.ProfessorDetail) *Professor {
	return &Professor{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		ProfileURL:     p.ProfileURL,
		LaboratoryID:   p.LaboratoryID,
		LaboratoryName: p.LaboratoryName,
	}
}

func convertResearchProduct(p *store.ResearchProductDetail) *ResearchProduct {
	return &ResearchProduct{
		ID:            p.ID,
		Title:         p.Title,
		Site:          p.Site,
		Year:          p.Year,
		ProfessorID:   p.ProfessorID,
		ProfessorName: p.ProfessorName,
		HasEmbedding:  p.Embedding != nil,
	}
}

func convertThesis(t *store.ThesisDetail) *Thesis {
	return &Thesis{
		ID:           t.ID,
		Title:        t.Title,
		StudentID:    t.StudentID,
		StudentName:  t.StudentName,
		Advisor1Name: t.Advisor1Name,
		Advisor2Name: t.Advisor2Name,
		HasEmbedding: t.Embedding != nil,
	}
}

func (s *APIV1Service) listProfessors(c echo.Context) error {
	professors, err := s.Store.ListProfessorDetails(c.Request().Context(), &store.FindProfessor{})
	if err != nil {
		return mapEngineError(err, "list_professors")
	}
	result := make([]*Professor, 0, len(professors))
	for _, p := range professors {
		result = append(result, convertProfessor(p))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) getProfessor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	professor, err := s.Store.GetProfessorDetail(c.Request().Context(), id)
	if err != nil {
		return mapEngineError(err, "get_professor")
	}
	if professor == nil {
		return echo.NewHTTPError(http.StatusNotFound, "professor not found")
	}
	return c.JSON(http.StatusOK, convertProfessor(professor))
}

func (s *APIV1Service) listProfessorResearch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	products, err := s.Store.ListResearchProductDetails(c.Request().Context(), &store.FindResearchProduct{ProfessorID: &id})
	if err != nil {
		return mapEngineError(err, "list_professor_research")
	}
	result := make([]*ResearchProduct, 0, len(products))
	for _, p := range products {
		result = append(result, convertResearchProduct(p))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) listProfessorTheses(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	theses, err := s.Store.ListThesisDetails(c.Request().Context(), &store.FindThesis{AdvisorID: &id})
	if err != nil {
		return mapEngineError(err, "list_professor_theses")
	}
	result := make([]*Thesis, 0, len(theses))
	for _, t := range theses {
		result = append(result, convertThesis(t))
	}
	return c.JSON(http.StatusOK, result)
}

// pathID parses a positive int32 path parameter.
func pathID(c echo.Context, name string) (int32, error) {
	raw := c.Param(name)
	id64, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id64 <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id: "+raw)
	}
	return int32(id64), nil
}

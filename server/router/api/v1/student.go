package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charecktowa/thesis-match/store"
)

// Student is the API projection of a graduate student with their program
// record.
type Student struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	ProfileURL  *string `json:"profile_url"`
	Program     *string `json:"program"`
	Status      *string `json:"status"`
	ThesisTitle *string `json:"thesis_title"`
	ThesisURL   *string `json:"thesis_url"`
}

// Laboratory is the API projection of a laboratory.
type Laboratory struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

func convertStudent(s *store.StudentDetail) *Student {
	return &Student{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		ProfileURL:  s.ProfileURL,
		Program:     s.Program,
		Status:      s.Status,
		ThesisTitle: s.ThesisTitle,
		ThesisURL:   s.ThesisURL,
	}
}

func (s *APIV1Service) listStudents(c echo.Context) error {
	return s.respondStudents(c, &store.FindStudent{})
}

func (s *APIV1Service) getStudent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	student, err := s.Store.GetStudentDetail(c.Request().Context(), id)
	if err != nil {
		return mapEngineError(err, "get_student")
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	return c.JSON(http.StatusOK, convertStudent(student))
}

func (s *APIV1Service) listStudentLaboratories(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	laboratories, err := s.Store.ListStudentLaboratories(c.Request().Context(), id)
	if err != nil {
		return mapEngineError(err, "list_student_laboratories")
	}
	result := make([]*Laboratory, 0, len(laboratories))
	for _, lab := range laboratories {
		result = append(result, &Laboratory{ID: lab.ID, Name: lab.Name})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) getStudentThesis(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	theses, err := s.Store.ListThesisDetails(c.Request().Context(), &store.FindThesis{StudentID: &id})
	if err != nil {
		return mapEngineError(err, "get_student_thesis")
	}
	if len(theses) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "student has no thesis")
	}
	return c.JSON(http.StatusOK, convertThesis(theses[0]))
}

func (s *APIV1Service) listStudentsByProgram(c echo.Context) error {
	program := c.Param("program")
	return s.respondStudents(c, &store.FindStudent{Program: &program})
}

func (s *APIV1Service) listStudentsByStatus(c echo.Context) error {
	status := c.Param("status")
	return s.respondStudents(c, &store.FindStudent{Status: &status})
}

func (s *APIV1Service) respondStudents(c echo.Context, find *store.FindStudent) error {
	students, err := s.Store.ListStudentDetails(c.Request().Context(), find)
	if err != nil {
		return mapEngineError(err, "list_students")
	}
	result := make([]*Student, 0, len(students))
	for _, student := range students {
		result = append(result, convertStudent(student))
	}
	return c.JSON(http.StatusOK, result)
}

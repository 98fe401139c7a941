package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/model"
)

// Enrollments is the enrollment service used by EmployeeCourseHandler.
type Enrollments interface {
	Get(ctx context.Context, id int64) (*model.EmployeeCourse, error)
	List(ctx context.Context, f model.EnrollmentFilter) ([]model.EmployeeCourse, error)
	Transcript(ctx context.Context, employeeID int64) ([]model.EmployeeCourse, error)
	Enroll(ctx context.Context, ec *model.EmployeeCourse) (*model.EmployeeCourse, error)
	Update(ctx context.Context, ec *model.EmployeeCourse) (*model.EmployeeCourse, error)
	Delete(ctx context.Context, id int64) error
}

// EmployeeCourseHandler serves /api/employee-courses.
type EmployeeCourseHandler struct {
	Svc Enrollments
}

func NewEmployeeCourseHandler(svc Enrollments) *EmployeeCourseHandler {
	return &EmployeeCourseHandler{Svc: svc}
}

// enrollmentDetails are the fields shared by enroll and update.
type enrollmentDetails struct {
	StartDate    Date    `json:"startDate"`
	EndDate      Date    `json:"endDate"`
	Hours        int     `json:"hours" validate:"gte=0"`
	Credits      int     `json:"credits" validate:"gte=0"`
	DistrictCost float64 `json:"districtCost" validate:"gte=0"`
	EmployeeCost float64 `json:"employeeCost" validate:"gte=0"`
	Grade        *string `json:"grade" validate:"omitempty,max=20"`
	Major        *string `json:"major" validate:"omitempty,max=100"`
	Notes        *string `json:"notes"`
}

func (d enrollmentDetails) model() *model.EmployeeCourse {
	return &model.EmployeeCourse{
		StartDate:    d.StartDate.Time,
		EndDate:      d.EndDate.Time,
		Hours:        d.Hours,
		Credits:      d.Credits,
		DistrictCost: d.DistrictCost,
		EmployeeCost: d.EmployeeCost,
		Grade:        optString(d.Grade),
		Major:        optString(d.Major),
		Notes:        optString(d.Notes),
	}
}

type enrollReq struct {
	EmployeeID int64 `json:"employeeId" validate:"required,gt=0"`
	CourseID   int64 `json:"courseId" validate:"required,gt=0"`
	enrollmentDetails
}

// transcriptEntry is the condensed enrollment shown on a transcript.
type transcriptEntry struct {
	EmployeeCourseID  int64     `json:"employeeCourseId"`
	EmployeeID        int64     `json:"employeeId"`
	CourseDescription string    `json:"courseDescription"`
	StartDate         time.Time `json:"startDate"`
	Grade             *string   `json:"grade"`
}

// Enroll handles POST /api/employee-courses/enroll.
func (h *EmployeeCourseHandler) Enroll(c echo.Context) error {
	var req enrollReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ec := req.model()
	ec.EmployeeID = req.EmployeeID
	ec.CourseID = req.CourseID
	out, err := h.Svc.Enroll(c.Request().Context(), ec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// List handles GET /api/employee-courses?employeeId=&courseId=.
func (h *EmployeeCourseHandler) List(c echo.Context) error {
	var f model.EnrollmentFilter
	var err error
	if f.EmployeeID, err = queryInt64(c, "employeeId"); err != nil {
		return err
	}
	if f.CourseID, err = queryInt64(c, "courseId"); err != nil {
		return err
	}
	list, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Transcript handles GET /api/employee-courses/employee/:employeeId.
func (h *EmployeeCourseHandler) Transcript(c echo.Context) error {
	employeeID, err := pathID(c, "employeeId")
	if err != nil {
		return err
	}
	list, err := h.Svc.Transcript(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}
	out := make([]transcriptEntry, 0, len(list))
	for _, ec := range list {
		out = append(out, transcriptEntry{
			EmployeeCourseID:  ec.ID,
			EmployeeID:        ec.EmployeeID,
			CourseDescription: ec.CourseDescription,
			StartDate:         ec.StartDate,
			Grade:             ec.Grade,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeCourseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ec, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *EmployeeCourseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req enrollmentDetails
	if err := bind(c, &req); err != nil {
		return err
	}
	ec := req.model()
	ec.ID = id
	out, err := h.Svc.Update(c.Request().Context(), ec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeCourseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/model"
)

// Courses is the course service used by CourseHandler.
type Courses interface {
	List(ctx context.Context, f model.CourseFilter) ([]model.Course, error)
	Get(ctx context.Context, id int64) (*model.Course, error)
	Create(ctx context.Context, c *model.Course) (*model.Course, error)
	Update(ctx context.Context, c *model.Course) (*model.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler serves /api/courses.
type CourseHandler struct {
	Svc Courses
}

func NewCourseHandler(svc Courses) *CourseHandler {
	return &CourseHandler{Svc: svc}
}

type courseReq struct {
	CourseTypeID         int64   `json:"courseTypeId" validate:"required,gt=0"`
	Description          string  `json:"description" validate:"required,max=255"`
	StartDate            Date    `json:"startDate"`
	EndDate              Date    `json:"endDate"`
	Hours                int     `json:"hours" validate:"gte=0"`
	Credits              int     `json:"credits" validate:"gte=0"`
	DistrictCost         float64 `json:"districtCost" validate:"gte=0"`
	EmployeeCost         float64 `json:"employeeCost" validate:"gte=0"`
	TuitionEligible      bool    `json:"tuitionEligible"`
	Approved             bool    `json:"approved"`
	MaintenanceOfLicense bool    `json:"maintenanceOfLicense"`
	Provider             *string `json:"provider"`
	Presenter            *string `json:"presenter"`
	Institution          *string `json:"institution"`
	Degree               *string `json:"degree"`
	CertNo               *string `json:"certNo"`
	Location             *string `json:"location"`
	Notes                *string `json:"notes"`
}

func (r courseReq) model(id int64) *model.Course {
	return &model.Course{
		ID:                   id,
		CourseTypeID:         r.CourseTypeID,
		Description:          r.Description,
		StartDate:            r.StartDate.Time,
		EndDate:              r.EndDate.Time,
		Hours:                r.Hours,
		Credits:              r.Credits,
		DistrictCost:         r.DistrictCost,
		EmployeeCost:         r.EmployeeCost,
		TuitionEligible:      r.TuitionEligible,
		Approved:             r.Approved,
		MaintenanceOfLicense: r.MaintenanceOfLicense,
		Provider:             optString(r.Provider),
		Presenter:            optString(r.Presenter),
		Institution:          optString(r.Institution),
		Degree:               optString(r.Degree),
		CertNo:               optString(r.CertNo),
		Location:             optString(r.Location),
		Notes:                optString(r.Notes),
	}
}

// List handles GET /api/courses?typeId=&date=&approved=.
func (h *CourseHandler) List(c echo.Context) error {
	var f model.CourseFilter
	var err error
	if f.TypeID, err = queryInt64(c, "typeId"); err != nil {
		return err
	}
	if f.Approved, err = queryBool(c, "approved"); err != nil {
		return err
	}
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return badRequest("invalid date")
		}
		f.Date = &d
	}

	list, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	course, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req courseReq
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.Svc.Create(c.Request().Context(), req.model(0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req courseReq
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.Svc.Update(c.Request().Context(), req.model(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/model"
)

// CourseTypes is the course type service used by CourseTypeHandler.
type CourseTypes interface {
	List(ctx context.Context) ([]model.CourseType, error)
	Get(ctx context.Context, id int64) (*model.CourseType, error)
	Create(ctx context.Context, description string) (*model.CourseType, error)
	Update(ctx context.Context, id int64, description string) (*model.CourseType, error)
	Delete(ctx context.Context, id int64) error
}

// CourseTypeHandler serves /api/course-types.
type CourseTypeHandler struct {
	Svc CourseTypes
}

func NewCourseTypeHandler(svc CourseTypes) *CourseTypeHandler {
	return &CourseTypeHandler{Svc: svc}
}

type courseTypeReq struct {
	Description string `json:"description" validate:"required,max=255"`
}

func (h *CourseTypeHandler) List(c echo.Context) error {
	list, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CourseTypeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ct, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ct)
}

func (h *CourseTypeHandler) Create(c echo.Context) error {
	var req courseTypeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ct, err := h.Svc.Create(c.Request().Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ct)
}

func (h *CourseTypeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req courseTypeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ct, err := h.Svc.Update(c.Request().Context(), id, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ct)
}

func (h *CourseTypeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

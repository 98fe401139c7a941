package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/model"
)

// Employees is the employee service used by EmployeeHandler.
type Employees interface {
	List(ctx context.Context) ([]model.Employee, error)
	Get(ctx context.Context, id int64) (*model.Employee, error)
	Create(ctx context.Context, e *model.Employee) (*model.Employee, error)
	Update(ctx context.Context, e *model.Employee) (*model.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// EmployeeHandler serves /api/employees.
type EmployeeHandler struct {
	Svc Employees
}

func NewEmployeeHandler(svc Employees) *EmployeeHandler {
	return &EmployeeHandler{Svc: svc}
}

type employeeReq struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
}

func (h *EmployeeHandler) List(c echo.Context) error {
	list, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := h.Svc.Create(c.Request().Context(), &model.Employee{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req employeeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := h.Svc.Update(c.Request().Context(), &model.Employee{ID: id, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

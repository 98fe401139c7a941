package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/handler"
	"github.com/iliyamo/hr-training-api/internal/middleware"
	"github.com/iliyamo/hr-training-api/internal/model"
)

// API holds the handlers of the tenant-scoped resources.
type API struct {
	CourseTypes     *handler.CourseTypeHandler
	Courses         *handler.CourseHandler
	Employees       *handler.EmployeeHandler
	EmployeeCourses *handler.EmployeeCourseHandler
}

// RegisterAPI mounts the tenant-scoped resources under /api. Every route
// requires an access token; writes require Admin or HRUser and deletes
// require Admin. cache may be nil.
func RegisterAPI(e *echo.Echo, api API, tokens middleware.TokenValidator, cache *middleware.ResponseCache) {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(tokens)}
	if cache != nil {
		mw = append(mw, cache.Middleware())
	}
	g := e.Group("/api", mw...)

	writer := middleware.RequireRole(model.RoleAdmin, model.RoleHRUser)
	admin := middleware.RequireRole(model.RoleAdmin)

	// ---- Course types ----
	ct := api.CourseTypes
	g.GET("/course-types", ct.List)
	g.GET("/course-types/:id", ct.Get)
	g.POST("/course-types", ct.Create, writer)
	g.PUT("/course-types/:id", ct.Update, writer)
	g.DELETE("/course-types/:id", ct.Delete, admin)

	// ---- Courses ----
	co := api.Courses
	g.GET("/courses", co.List)
	g.GET("/courses/:id", co.Get)
	g.POST("/courses", co.Create, writer)
	g.PUT("/courses/:id", co.Update, writer)
	g.DELETE("/courses/:id", co.Delete, admin)

	// ---- Employees ----
	em := api.Employees
	g.GET("/employees", em.List)
	g.GET("/employees/:id", em.Get)
	g.POST("/employees", em.Create, writer)
	g.PUT("/employees/:id", em.Update, writer)
	g.DELETE("/employees/:id", em.Delete, admin)

	// ---- Enrollments ----
	ec := api.EmployeeCourses
	g.POST("/employee-courses/enroll", ec.Enroll, writer)
	g.GET("/employee-courses", ec.List, writer)
	g.GET("/employee-courses/employee/:employeeId", ec.Transcript)
	g.GET("/employee-courses/:id", ec.Get)
	g.PUT("/employee-courses/:id", ec.Update, writer)
	g.DELETE("/employee-courses/:id", ec.Delete, admin)
}

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hr-training-api/internal/handler"
	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/queue"
	"github.com/iliyamo/hr-training-api/internal/repository/memory"
	"github.com/iliyamo/hr-training-api/internal/service"
	"github.com/iliyamo/hr-training-api/internal/utils"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	log := zap.NewNop()
	pub := queue.NopPublisher{}

	issuer, err := utils.NewIssuer("router-secret", "hr-training-api", "hr-training-clients", 15*time.Minute)
	require.NoError(t, err)
	auth, err := service.NewAuthService(store.Users(), store.Tokens(), issuer, service.AuthConfig{
		RefreshTTL: 7 * 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
		Password:   utils.PasswordPolicy{MinLength: 8, RequireDigit: true},
	}, log)
	require.NoError(t, err)

	e := New(Options{Log: log, Development: true})
	RegisterRoutes(e, nil)
	RegisterAuth(e, handler.NewAuthHandler(auth), issuer)
	RegisterAPI(e, API{
		CourseTypes:     handler.NewCourseTypeHandler(service.NewCourseTypeService(store.CourseTypes(), pub, log)),
		Courses:         handler.NewCourseHandler(service.NewCourseService(store.Courses(), store.CourseTypes(), pub, log)),
		Employees:       handler.NewEmployeeHandler(service.NewEmployeeService(store.Employees(), pub, log)),
		EmployeeCourses: handler.NewEmployeeCourseHandler(service.NewEmployeeCourseService(store.Enrollments(), store.Employees(), store.Courses(), pub, log)),
	}, issuer, nil)
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type tokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		TraceID string `json:"trace_id"`
	} `json:"error"`
}

func (s *testServer) registerAndLogin(email string, tenantID int64, role string) tokens {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secret123", "firstName": "T", "lastName": "U", "tenantId": tenantID, "role": role,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokens](s.t, rec)
}

func TestScenario_HRUserLifecycle(t *testing.T) {
	s := newTestServer(t)
	hr := s.registerAndLogin("hr@district1.test", 1, model.RoleHRUser)
	admin := s.registerAndLogin("admin@district1.test", 1, model.RoleAdmin)
	require.NotEmpty(t, hr.Token)
	require.NotEmpty(t, hr.RefreshToken)

	rec := s.do(http.MethodPost, "/api/course-types", hr.Token, map[string]string{"description": "Fire Safety"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ct := decode[model.CourseType](t, rec)
	require.NotZero(t, ct.ID)

	rec = s.do(http.MethodPost, "/api/course-types", hr.Token, map[string]string{"description": "Fire Safety"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decode[apiError](t, rec).Error.Code)

	rec = s.do(http.MethodPost, "/api/courses", hr.Token, map[string]any{
		"courseTypeId": ct.ID, "description": "Extinguishers 101", "startDate": "2025-03-01", "hours": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[model.Course](t, rec)
	assert.Equal(t, "Fire Safety", course.CourseTypeName)

	path := "/api/course-types/" + itoa(ct.ID)
	rec = s.do(http.MethodDelete, path, hr.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodDelete, path, admin.Token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": hr.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := decode[tokens](t, rec)
	assert.NotEqual(t, hr.RefreshToken, rotated.RefreshToken)

	rec = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": hr.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_invalid_or_expired", decode[apiError](t, rec).Error.Code)

	rec = s.do(http.MethodGet, "/api/course-types", rotated.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CourseType](t, rec), 1)
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	a := s.registerAndLogin("a@one.test", 1, model.RoleAdmin)
	b := s.registerAndLogin("b@two.test", 2, model.RoleAdmin)

	rec := s.do(http.MethodPost, "/api/course-types", a.Token, map[string]string{"description": "Safety"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ct := decode[model.CourseType](t, rec)

	rec = s.do(http.MethodPost, "/api/course-types", b.Token, map[string]string{"description": "Safety"})
	require.Equal(t, http.StatusCreated, rec.Code)

	path := "/api/course-types/" + itoa(ct.ID)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, b.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, path, b.Token, map[string]string{"description": "Mine"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, b.Token, nil).Code)

	rec = s.do(http.MethodGet, "/api/course-types", b.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.CourseType](t, rec)
	require.Len(t, list, 1)
	assert.NotEqual(t, ct.ID, list[0].ID)

	rec = s.do(http.MethodGet, path, a.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Safety", decode[model.CourseType](t, rec).Description)
}

func TestAuthBoundary(t *testing.T) {
	s := newTestServer(t)
	user := s.registerAndLogin("hr@one.test", 1, model.RoleHRUser)

	rec := s.do(http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[apiError](t, rec)
	assert.Equal(t, "unauthorized", body.Error.Code)
	assert.NotEmpty(t, body.Error.TraceID)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/courses", "garbage", nil).Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "hr@one.test", "password": "wrong-pass1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	wrong := decode[apiError](t, rec)
	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@one.test", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrong.Error.Message, decode[apiError](t, rec).Error.Message)

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "hr@one.test", "password": "secret123", "tenantId": 1, "role": model.RoleHRUser,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "conflict", decode[apiError](t, rec).Error.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "weak@one.test", "password": "short", "tenantId": 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/auth/me", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), me["tenantId"])
	assert.Equal(t, []any{model.RoleHRUser}, me["roles"])

	rec = s.do(http.MethodPost, "/api/auth/revoke", "", map[string]string{"refreshToken": user.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/auth/revoke", "", map[string]string{"refreshToken": user.RefreshToken})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "token_already_revoked", decode[apiError](t, rec).Error.Code)

	rec = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": user.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnrollmentFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAndLogin("admin@one.test", 1, model.RoleAdmin)

	rec := s.do(http.MethodPost, "/api/employees", admin.Token, map[string]string{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@one.test"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emp := decode[model.Employee](t, rec)

	rec = s.do(http.MethodPost, "/api/course-types", admin.Token, map[string]string{"description": "Workshop"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ct := decode[model.CourseType](t, rec)

	rec = s.do(http.MethodPost, "/api/courses", admin.Token, map[string]any{
		"courseTypeId": ct.ID, "description": "Classroom Management", "startDate": "2025-06-02T00:00:00Z", "approved": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[model.Course](t, rec)

	rec = s.do(http.MethodPost, "/api/employee-courses/enroll", admin.Token, map[string]any{
		"employeeId": emp.ID, "courseId": course.ID, "hours": 6, "grade": "A",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ec := decode[model.EmployeeCourse](t, rec)
	assert.Equal(t, "Classroom Management", ec.CourseDescription)

	rec = s.do(http.MethodGet, "/api/employee-courses/employee/"+itoa(emp.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	transcript := decode[[]map[string]any](t, rec)
	require.Len(t, transcript, 1)
	assert.Equal(t, "A", transcript[0]["grade"])

	rec = s.do(http.MethodGet, "/api/courses?approved=true&date=2025-06-02", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Course](t, rec), 1)
	rec = s.do(http.MethodGet, "/api/courses?approved=maybe", admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/employee-courses?courseId="+itoa(course.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.EmployeeCourse](t, rec), 1)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/api/employees/"+itoa(emp.ID), admin.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/employee-courses/"+itoa(ec.ID), admin.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/employees/"+itoa(emp.ID), admin.Token, nil).Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/repository"
	"github.com/iliyamo/hr-training-api/internal/service"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

// Error codes in the response envelope.
const (
	codeAuthenticationFailed = "authentication_failed"
	codeTokenInvalid         = "token_invalid_or_expired"
	codeTokenRevoked         = "token_already_revoked"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codeNotFound             = "not_found"
	codeConflict             = "conflict"
	codeValidation           = "validation_failed"
	codeTooManyRequests      = "too_many_requests"
	codeInternal             = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id"`
	Detail  string `json:"detail,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// statusError pins the HTTP status of err, for endpoints whose contract
// differs from the default mapping.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }

func (e *statusError) Unwrap() error { return e.err }

func withStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	return &statusError{status: status, err: err}
}

// classify maps an error to its status, code and caller-safe message.
// Unknown errors are internal and their text is not exposed.
func classify(err error) (int, string, string) {
	var se *service.Error
	if errors.As(err, &se) {
		status, code := kindStatus(se.Kind)
		return status, code, se.Message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, httpCode(he.Code), msg
	}

	switch {
	case errors.Is(err, tenant.ErrNoUserContext), errors.Is(err, repository.ErrNoTenant):
		return http.StatusUnauthorized, codeUnauthorized, tenant.ErrNoUserContext.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, codeNotFound, "not found"
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, codeConflict, "conflict"
	}
	return http.StatusInternalServerError, codeInternal, "an unexpected error occurred"
}

func kindStatus(kind error) (int, string) {
	switch {
	case errors.Is(kind, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized, codeAuthenticationFailed
	case errors.Is(kind, service.ErrTokenInvalidOrExpired):
		return http.StatusUnauthorized, codeTokenInvalid
	case errors.Is(kind, service.ErrTokenAlreadyRevoked):
		return http.StatusBadRequest, codeTokenRevoked
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(kind, service.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(kind, service.ErrValidation):
		return http.StatusBadRequest, codeValidation
	}
	return http.StatusInternalServerError, codeInternal
}

func httpCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return codeUnauthorized
	case http.StatusForbidden:
		return codeForbidden
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusConflict:
		return codeConflict
	case http.StatusTooManyRequests:
		return codeTooManyRequests
	}
	if status >= 500 {
		return codeInternal
	}
	return codeValidation
}

// NewErrorHandler renders every error as {"error":{code,message,trace_id}}.
// The trace id is the request id; internal error text is included only
// when dev is set.
func NewErrorHandler(log *zap.Logger, dev bool) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := classify(err)
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}

		traceID := c.Response().Header().Get(echo.HeaderXRequestID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		body := errorBody{Code: code, Message: msg, TraceID: traceID}

		if status >= 500 {
			log.Error("request failed",
				zap.String("trace_id", traceID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			if dev {
				body.Detail = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorEnvelope{Error: body})
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

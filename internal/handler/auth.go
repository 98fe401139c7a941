package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/middleware"
	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/service"
)

// Authenticator is the auth core used by AuthHandler.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (service.TokenPair, error)
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Refresh(ctx context.Context, raw string) (service.TokenPair, error)
	Revoke(ctx context.Context, raw string) error
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	TenantID  int64  `json:"tenantId" validate:"required,gt=0"`
	Role      string `json:"role"` // Admin | HRUser
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type authResp struct {
	IsSuccess             bool       `json:"isSuccess"`
	Message               string     `json:"message"`
	Token                 string     `json:"token,omitempty"`
	TokenExpiresAt        *time.Time `json:"tokenExpiresAt,omitempty"`
	RefreshToken          string     `json:"refreshToken,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refreshTokenExpiresAt,omitempty"`
}

func pairResp(msg string, p service.TokenPair) authResp {
	return authResp{
		IsSuccess:             true,
		Message:               msg,
		Token:                 p.AccessToken,
		TokenExpiresAt:        &p.AccessExpiresAt,
		RefreshToken:          p.RefreshToken,
		RefreshTokenExpiresAt: &p.RefreshExpiresAt,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pairResp("login successful", pair))
}

// Register handles POST /api/auth/register. Every rejection is a 400.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	_, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TenantID:  req.TenantID,
		Role:      req.Role,
	})
	if err != nil {
		var se *service.Error
		if errors.As(err, &se) {
			return withStatus(http.StatusBadRequest, err)
		}
		return err
	}
	return c.JSON(http.StatusOK, authResp{IsSuccess: true, Message: "user registered successfully"})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return withStatus(http.StatusUnauthorized, err)
	}
	pair, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pairResp("token refreshed", pair))
}

// Revoke handles POST /api/auth/revoke.
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Auth.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResp{IsSuccess: true, Message: "token revoked"})
}

type meResp struct {
	UserID   int64    `json:"userId"`
	Email    string   `json:"email"`
	TenantID int64    `json:"tenantId"`
	Roles    []string `json:"roles"`
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	roles := id.Roles
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(http.StatusOK, meResp{UserID: id.UserID, Email: id.Email, TenantID: id.TenantID, Roles: roles})
}

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/model"
)

// AuthHandler bundles dependencies for the account and token endpoints.
type AuthHandler struct {
	Svc *auth.Service
	Log *slog.Logger
}

func NewAuthHandler(svc *auth.Service, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // buyer | seller, empty means buyer
}

// loginReq accepts the OAuth2 password form (username/password) as well
// as a JSON body (email/password).
type loginReq struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register handles POST /users and creates a buyer or seller account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	a, err := h.Svc.Register(ctx, auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// Login handles POST /auth/jwt/token and returns a bearer access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	if email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	tok, err := h.Svc.Login(ctx, email, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken: tok.Value,
		TokenType:   "bearer",
		ExpiresAt:   tok.ExpiresAt,
	})
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c echo.Context, a *model.Account) error {
	return c.JSON(http.StatusOK, a)
}

// Roles handles GET /roles (admin only).
func (h *AuthHandler) Roles(c echo.Context, _ *model.Account) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	roles, err := h.Svc.Roles(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": roles})
}

package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/catalog-backend/internal/auth"
    "github.com/iliyamo/catalog-backend/internal/model"
)

// RequireRole returns a middleware that admits the request only when the
// account stored by JWTAuth passes gate. Admin passes every gate. It must
// run after JWTAuth; without an account the request is rejected with 401.
func RequireRole(gate auth.RoleGate) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            a, ok := AccountFrom(c)
            if !ok {
                return unauthorized(c)
            }
            if _, err := gate.Check(a); err != nil {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// AccountHandler is a handler that receives the authenticated account
// as an argument.
type AccountHandler func(c echo.Context, a *model.Account) error

// WithAccount adapts h to an echo.HandlerFunc, passing the account
// stored by JWTAuth explicitly.
func WithAccount(h AccountHandler) echo.HandlerFunc {
    return func(c echo.Context) error {
        a, ok := AccountFrom(c)
        if !ok {
            return unauthorized(c)
        }
        return h(c, a)
    }
}

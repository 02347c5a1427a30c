package middleware

import (
    "context"
    "log/slog"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/catalog-backend/internal/auth"
    "github.com/iliyamo/catalog-backend/internal/model"
)

// Authenticator verifies a bearer token and resolves its account.
// *auth.Service satisfies it.
type Authenticator interface {
    Authenticate(ctx context.Context, bearer string) (*model.Account, error)
}

// JWTAuth returns an Echo middleware that requires a valid Bearer access
// token. On success the resolved account is stored in the context for
// RequireRole and WithAccount. Every authentication failure gets the
// same 401 body so clients cannot tell an unknown account from a bad
// token; store failures become 500.
func JWTAuth(svc Authenticator, log *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
            if !ok {
                return unauthorized(c)
            }

            a, err := svc.Authenticate(c.Request().Context(), raw)
            if err != nil {
                switch auth.Classify(err) {
                case auth.OutcomeUnauthenticated:
                    return unauthorized(c)
                default:
                    log.ErrorContext(c.Request().Context(), "authenticate failed", slog.Any("err", err))
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
                }
            }
            setAccount(c, a)
            return next(c)
        }
    }
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, bool) {
    scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
    if !found || !strings.EqualFold(scheme, "Bearer") {
        return "", false
    }
    token = strings.TrimSpace(token)
    return token, token != ""
}

func unauthorized(c echo.Context) error {
    c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
}

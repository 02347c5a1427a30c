package middleware

// identity.go holds the helpers that carry the authenticated account
// through the Echo context. JWTAuth stores it, WithAccount and the rate
// limiter read it back.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/catalog-backend/internal/model"
)

const accountKey = "account"

func setAccount(c echo.Context, a *model.Account) {
    c.Set(accountKey, a)
}

// AccountFrom returns the account stored by JWTAuth, if any.
func AccountFrom(c echo.Context) (*model.Account, bool) {
    a, ok := c.Get(accountKey).(*model.Account)
    return a, ok && a != nil
}

// userID returns the authenticated account id as a string, or "guest"
// when the request is anonymous.
func userID(c echo.Context) string {
    if a, ok := AccountFrom(c); ok {
        return strconv.FormatUint(a.ID, 10)
    }
    return "guest"
}

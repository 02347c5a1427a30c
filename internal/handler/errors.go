package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/repository"
)

// dbTimeout bounds every store call made while serving a request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// respondError writes a generic JSON error for err. Store details never
// reach the client; unexpected failures are logged with the request id.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.Any("err", err))
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCartItemNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrCategoryExists):
		return http.StatusConflict, "category name already exists"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "resource is still referenced"
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	}

	switch auth.Classify(err) {
	case auth.OutcomeInvalid:
		return http.StatusBadRequest, err.Error()
	case auth.OutcomeUnauthenticated:
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return http.StatusUnauthorized, "incorrect email or password"
		}
		return http.StatusUnauthorized, "could not validate credentials"
	case auth.OutcomeUnauthorized:
		if errors.Is(err, auth.ErrAdminSelfRegistration) {
			return http.StatusForbidden, "admin accounts cannot self-register"
		}
		return http.StatusForbidden, "forbidden"
	case auth.OutcomeConflict:
		return http.StatusConflict, "email already registered"
	}
	return http.StatusInternalServerError, "internal error"
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

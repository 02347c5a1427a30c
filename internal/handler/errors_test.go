package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/repository"
	"github.com/iliyamo/catalog-backend/internal/storetest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{repository.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", repository.ErrCategoryNotFound), http.StatusNotFound},
		{repository.ErrCartItemNotFound, http.StatusNotFound},
		{repository.ErrCategoryExists, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrForbidden, http.StatusForbidden},
		{auth.ErrDuplicateEmail, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrTokenExpired, http.StatusUnauthorized},
		{auth.ErrAdminSelfRegistration, http.StatusForbidden},
		{fmt.Errorf("%w: bad", auth.ErrValidation), http.StatusBadRequest},
		{auth.ErrRoleNotConfigured, http.StatusInternalServerError},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := statusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondError(c, discard, errors.New("Error 1146: Table 'catalog.products' doesn't exist")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestProductCreate_Validation(t *testing.T) {
	catalog := storetest.NewCatalog()
	h := NewProductHandler(catalog.Products(), discard)
	seller := &model.Account{ID: 7, Role: model.RoleSeller}

	for _, body := range []string{
		`{"price_cents":100,"category_id":1}`,
		`{"name":"x","category_id":1}`,
		`{"name":"x","price_cents":-5,"category_id":1}`,
		`{"name":"x","price_cents":100}`,
		`{"name":"x","price_cents":100,"category_id":1}`, // category does not exist
	} {
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Create(echo.New().NewContext(req, rec), seller))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestParseID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	for raw, want := range map[string]bool{"12": true, "0": false, "-1": false, "x": false} {
		c.SetParamValues(raw)
		_, ok := parseID(c, "id")
		assert.Equal(t, want, ok, raw)
	}
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/model"
)

// CategoryStore is the persistence used by CategoryHandler.
// *repository.CategoryRepo satisfies it.
type CategoryStore interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	Delete(ctx context.Context, id uint64) error
}

// CategoryHandler serves /categories. Reads are public, writes are
// mounted behind the admin gate.
type CategoryHandler struct {
	Categories CategoryStore
	Log        *slog.Logger
}

func NewCategoryHandler(s CategoryStore, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{Categories: s, Log: log}
}

type categoryReq struct {
	Name string `json:"name"`
}

func (r categoryReq) name() (string, bool) {
	n := strings.TrimSpace(r.Name)
	return n, n != "" && len(n) <= 100
}

// List handles GET /categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Categories.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Create handles POST /categories. The creating admin becomes the owner.
func (h *CategoryHandler) Create(c echo.Context, a *model.Account) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	name, ok := req.name()
	if !ok {
		return badRequest(c, "name is required (max 100 characters)")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	cat := &model.Category{Name: name, OwnerID: a.ID}
	if err := h.Categories.Create(ctx, cat); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /categories/:id and renames the category.
func (h *CategoryHandler) Update(c echo.Context, _ *model.Account) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	name, ok := req.name()
	if !ok {
		return badRequest(c, "name is required (max 100 characters)")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Categories.UpdateName(ctx, id, name); err != nil {
		return respondError(c, h.Log, err)
	}
	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /categories/:id. Categories that still hold
// products are refused with 409.
func (h *CategoryHandler) Delete(c echo.Context, _ *model.Account) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

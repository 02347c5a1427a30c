package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/repository"
)

// ProductStore is the persistence used by ProductHandler and
// CartHandler. *repository.ProductRepo satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
}

// ProductHandler serves /products. Public reads only ever see active
// products; writes are limited to sellers and admins, and a seller may
// only change its own products.
type ProductHandler struct {
	Products ProductStore
	Log      *slog.Logger
}

func NewProductHandler(s ProductStore, log *slog.Logger) *ProductHandler {
	return &ProductHandler{Products: s, Log: log}
}

type createProductReq struct {
	Name       string `json:"name"`
	PriceCents *int64 `json:"price_cents"`
	CategoryID uint64 `json:"category_id"`
	IsActive   *bool  `json:"is_active"`
}

// updateProductReq carries optional fields; nil means unchanged.
type updateProductReq struct {
	Name       *string `json:"name"`
	PriceCents *int64  `json:"price_cents"`
	CategoryID *uint64 `json:"category_id"`
	IsActive   *bool   `json:"is_active"`
}

func validPrice(p int64) bool { return p >= 0 && p <= 1<<32-1 }

// List handles GET /products with an optional category_id filter.
func (h *ProductHandler) List(c echo.Context) error {
	var f repository.ProductFilter
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return badRequest(c, "invalid category_id")
		}
		f.CategoryID = &id
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Products.List(ctx, f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /products/:id. Inactive products are reported as not found.
func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !p.IsActive {
		return respondError(c, h.Log, repository.ErrProductNotFound)
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /products. The caller becomes the seller.
func (h *ProductHandler) Create(c echo.Context, a *model.Account) error {
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	if req.PriceCents == nil || !validPrice(*req.PriceCents) {
		return badRequest(c, "price_cents must be a non-negative integer")
	}
	if req.CategoryID == 0 {
		return badRequest(c, "category_id is required")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p := &model.Product{
		Name:       name,
		PriceCents: uint32(*req.PriceCents),
		CategoryID: req.CategoryID,
		SellerID:   a.ID,
		IsActive:   active,
	}
	if err := h.Products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return badRequest(c, "category does not exist")
		}
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c echo.Context, a *model.Account) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req updateProductReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.owned(ctx, id, a)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		if n == "" {
			return badRequest(c, "name cannot be empty")
		}
		p.Name = n
	}
	if req.PriceCents != nil {
		if !validPrice(*req.PriceCents) {
			return badRequest(c, "price_cents must be a non-negative integer")
		}
		p.PriceCents = uint32(*req.PriceCents)
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := h.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return badRequest(c, "category does not exist")
		}
		return respondError(c, h.Log, err)
	}
	updated, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c echo.Context, a *model.Account) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.owned(ctx, id, a); err != nil {
		return respondError(c, h.Log, err)
	}
	if err := h.Products.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// owned loads product id and checks that a may modify it: admins may
// modify any product, sellers only their own.
func (h *ProductHandler) owned(ctx context.Context, id uint64, a *model.Account) (*model.Product, error) {
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Role != model.RoleAdmin && p.SellerID != a.ID {
		return nil, repository.ErrForbidden
	}
	return p, nil
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/queue"
	"github.com/iliyamo/catalog-backend/internal/repository"
)

// CartStore is the persistence used by CartHandler.
// *repository.CartRepo satisfies it.
type CartStore interface {
	AddItem(ctx context.Context, userID, productID uint64, quantity uint32) error
	ListItems(ctx context.Context, userID uint64) ([]model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uint64) error
	Clear(ctx context.Context, userID uint64) error
}

// CartHandler serves the caller's own cart. Every authenticated role may
// hold a cart.
type CartHandler struct {
	Products ProductStore
	Cart     CartStore
	Events   auth.EventPublisher // may be nil
	Log      *slog.Logger
}

func NewCartHandler(p ProductStore, cart CartStore, events auth.EventPublisher, log *slog.Logger) *CartHandler {
	return &CartHandler{Products: p, Cart: cart, Events: events, Log: log}
}

type addItemReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// maxLineQuantity caps a single add so quantity stays well inside uint32.
const maxLineQuantity = 10000

// Get handles GET /cart.
func (h *CartHandler) Get(c echo.Context, a *model.Account) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	return h.respondCart(ctx, c, a.ID, http.StatusOK)
}

// Add handles POST /cart. Adding a product already in the cart grows
// its quantity.
func (h *CartHandler) Add(c echo.Context, a *model.Account) error {
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ProductID == 0 {
		return badRequest(c, "product_id is required")
	}
	if req.Quantity < 1 || req.Quantity > maxLineQuantity {
		return badRequest(c, "quantity must be between 1 and 10000")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !p.IsActive {
		return respondError(c, h.Log, repository.ErrProductNotFound)
	}
	qty := uint32(req.Quantity)
	if err := h.Cart.AddItem(ctx, a.ID, p.ID, qty); err != nil {
		return respondError(c, h.Log, err)
	}

	if h.Events != nil {
		if err := h.Events.Publish(ctx, queue.CartItemAdded(a.ID, p.ID, qty, time.Now())); err != nil {
			h.Log.WarnContext(ctx, "publish cart event failed", slog.Any("err", err))
		}
	}
	return h.respondCart(ctx, c, a.ID, http.StatusOK)
}

// RemoveItem handles DELETE /cart/items/:product_id.
func (h *CartHandler) RemoveItem(c echo.Context, a *model.Account) error {
	productID, ok := parseID(c, "product_id")
	if !ok {
		return badRequest(c, "invalid product_id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Cart.RemoveItem(ctx, a.ID, productID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c echo.Context, a *model.Account) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Cart.Clear(ctx, a.ID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) respondCart(ctx context.Context, c echo.Context, userID uint64, status int) error {
	items, err := h.Cart.ListItems(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(status, model.NewCart(items))
}

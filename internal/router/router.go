// Package router defines how HTTP routes are registered for the API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/handler"
	"github.com/iliyamo/catalog-backend/internal/middleware"
)

// Guards bundles the per-route middleware the register functions apply.
// A nil field is treated as a pass-through.
type Guards struct {
	Auth  echo.MiddlewareFunc // middleware.JWTAuth
	Limit echo.MiddlewareFunc // token bucket on credential endpoints
	Cache echo.MiddlewareFunc // response cache on catalog reads
}

func (g Guards) orNoop(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

// RegisterRoutes registers the unauthenticated operational endpoints:
// liveness, status and, when metrics is non-nil, the Prometheus scrape
// endpoint.
func RegisterRoutes(e *echo.Echo, version string, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	e.GET("/health", handler.Status(version))
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers account and token routes. Login and
// registration are rate limited; /users/me and /roles require a token,
// /roles also the admin role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	limit, authn := g.orNoop(g.Limit), g.orNoop(g.Auth)

	e.POST("/auth/jwt/token", a.Login, limit)
	e.POST("/users", a.Register, limit)
	e.GET("/users/me", middleware.WithAccount(a.Me), authn)
	e.GET("/roles", middleware.WithAccount(a.Roles), authn, middleware.RequireRole(auth.AdminGate))
}

// RegisterCatalog registers category and product routes. Reads are
// public and cached; writes require admin (categories) or seller/admin
// (products) and invalidate the cached reads of their resource.
func RegisterCatalog(e *echo.Echo, cat *handler.CategoryHandler, prod *handler.ProductHandler, g Guards) {
	cache, authn := g.orNoop(g.Cache), g.orNoop(g.Auth)
	admin := []echo.MiddlewareFunc{authn, middleware.RequireRole(auth.AdminGate), cache}
	seller := []echo.MiddlewareFunc{authn, middleware.RequireRole(auth.SellerGate), cache}

	e.GET("/categories", cat.List, cache)
	e.GET("/categories/:id", cat.Get, cache)
	e.POST("/categories", middleware.WithAccount(cat.Create), admin...)
	e.PUT("/categories/:id", middleware.WithAccount(cat.Update), admin...)
	e.DELETE("/categories/:id", middleware.WithAccount(cat.Delete), admin...)

	e.GET("/products", prod.List, cache)
	e.GET("/products/:id", prod.Get, cache)
	e.POST("/products", middleware.WithAccount(prod.Create), seller...)
	e.PUT("/products/:id", middleware.WithAccount(prod.Update), seller...)
	e.DELETE("/products/:id", middleware.WithAccount(prod.Delete), seller...)
}

// RegisterCart registers the caller's cart routes. Any authenticated
// role may use them.
func RegisterCart(e *echo.Echo, h *handler.CartHandler, g Guards) {
	c := e.Group("/cart", g.orNoop(g.Auth), middleware.RequireRole(auth.AnyRole))
	c.GET("", middleware.WithAccount(h.Get))
	c.POST("", middleware.WithAccount(h.Add))
	c.DELETE("", middleware.WithAccount(h.Clear))
	c.DELETE("/items/:product_id", middleware.WithAccount(h.RemoveItem))
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/candyline/sweet-shop/internal/handlers"
	authmw "github.com/candyline/sweet-shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	SweetHandler  *handlers.SweetHandler
	SearchHandler *handlers.SearchHandler
	TokenMW       *authmw.TokenMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)

	sweets := api.Group("/sweets")
	sweets.GET("", d.SweetHandler.ListSweets)
	sweets.POST("/:id/purchase", d.SweetHandler.PurchaseSweet, d.TokenMW.RequireLogin)

	admin := sweets.Group("", d.TokenMW.RequireLogin, authmw.AdminOnly)
	admin.POST("", d.SweetHandler.CreateSweet)
	admin.PUT("/:id", d.SweetHandler.UpdateSweet)
	admin.DELETE("/:id", d.SweetHandler.DeleteSweet)
	admin.POST("/:id/restock", d.SweetHandler.RestockSweet)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}
}

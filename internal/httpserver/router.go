package httpserver

import (
	"github.com/labstack/echo/v4"

	mwauth "github.com/kmazurov/order_service/internal/middleware/auth"
	"github.com/kmazurov/order_service/internal/repo"
)

type Deps struct {
	OrderHandler      *OrderHTTP
	ProcessingHandler *ProcessingHTTP
	AuthHandler       *AuthHTTP
	ReportHandler     *ReportHTTP

	JWTSecret []byte
	Users     *repo.UserRepo
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	requireLogin := mwauth.RequireLogin(d.JWTSecret, d.Users)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, requireLogin)
	auth.GET("/users", d.AuthHandler.ListUsers, requireLogin, mwauth.RequireRole("admin"))

	orders := e.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders, requireLogin)
	orders.GET("/search", d.OrderHandler.SearchOrders, requireLogin)
	orders.GET("/:id", d.OrderHandler.GetOrder, requireLogin)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder, requireLogin)

	processing := e.Group("/processing", requireLogin)
	processing.POST("/:id/process", d.ProcessingHandler.ProcessOrder)

	reports := e.Group("/reports", requireLogin)
	reports.GET("/daily", d.ReportHandler.Daily)
	reports.GET("/range", d.ReportHandler.Range)
}

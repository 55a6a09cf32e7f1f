package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/pkg/metrics"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/vigor_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/vigor_shop/pkg/middleware/origin"
)

const bodyLimit = "1M"

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Blog    *BlogHTTP
	Orders  *OrderHTTP
	Payment *PaymentHTTP
	Admin   *AdminHTTP

	Guard       *middleware.Guard
	CORSOrigins []string
	Logger      *slog.Logger
	// Ready reports whether the service can take traffic, typically a DB ping.
	Ready func(ctx context.Context) error
}

func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(
		ecM.Recover(),
		ecM.RequestID(),
		metrics.Middleware(),
		loggingmw.WithConfig(loggingmw.Config{
			Logger:     d.Logger,
			QuietPaths: []string{"/health/live", "/health/ready", "/metrics"},
			UserKey:    middleware.KeyUserID,
		}),
		ecM.CORSWithConfig(ecM.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}),
		ecM.Secure(),
		ecM.BodyLimit(bodyLimit),
	)

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	requireAuth := d.Guard.RequireAuth()
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	// refresh and logout ride on the cookie, so cross-site posts are refused
	sameSite := origin.Check(d.CORSOrigins)
	auth.POST("/refresh", d.Auth.Refresh, sameSite, d.Guard.RequireRefresh())
	auth.POST("/logout", d.Auth.LogOut, sameSite, requireAuth)
	auth.GET("/me", d.Auth.Me, requireAuth)

	products := v1.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/:slug", d.Catalog.GetProduct)

	categories := v1.Group("/categories")
	categories.GET("", d.Catalog.GetCategories)
	categories.GET("/:slug", d.Catalog.GetCategory)
	categories.POST("", d.Catalog.CreateCategory, requireAuth, adminOnly)
	categories.PUT("/:slug", d.Catalog.UpdateCategory, requireAuth, adminOnly)
	categories.DELETE("/:slug", d.Catalog.DeleteCategory, requireAuth, adminOnly)

	blog := v1.Group("/blog")
	blog.GET("", d.Blog.List)
	blog.GET("/:slug", d.Blog.Get)
	blog.POST("", d.Blog.Create, requireAuth, adminOnly)
	blog.PUT("/:slug", d.Blog.Update, requireAuth, adminOnly)
	blog.DELETE("/:slug", d.Blog.Delete, requireAuth, adminOnly)

	orders := v1.Group("/orders", requireAuth)
	orders.POST("", d.Orders.Create)
	orders.GET("/my-orders", d.Orders.MyOrders)
	orders.GET("/:id", d.Orders.Get)
	orders.GET("", d.Orders.List, adminOnly)
	orders.PUT("/:id/status", d.Orders.UpdateStatus, adminOnly)
	orders.DELETE("/:id", d.Orders.Delete, adminOnly)

	payments := v1.Group("/payments/:provider", requireAuth)
	payments.POST("/order", d.Payment.CreateIntent)
	payments.POST("/verify", d.Payment.Verify)

	admin := v1.Group("/admin", requireAuth, adminOnly)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/orders", d.Orders.List)
	admin.PUT("/orders/:id/status", d.Orders.UpdateStatus)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PUT("/products/:slug", d.Catalog.UpdateProduct)
	admin.DELETE("/products/:slug", d.Catalog.DeleteProduct)
	admin.GET("/blog", d.Blog.ListAdmin)
	admin.GET("/users", d.Admin.ListUsers)
	admin.DELETE("/users/:id", d.Admin.DeleteUser)
}

package v1

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/tausif4802/ggp-backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/tausif4802/ggp-backend/internal/adapters/http/middleware"
	"github.com/tausif4802/ggp-backend/internal/domain"
)

type Router struct {
	auth      *handlers.AuthHandler
	catalog   *handlers.CatalogHandler
	authMW    echo.MiddlewareFunc
	rateLimit float64
}

// NewRouter wires the public API. rateLimit is requests per second per IP on /auth; 0 disables it.
func NewRouter(auth *handlers.AuthHandler, catalog *handlers.CatalogHandler, authMW echo.MiddlewareFunc, rateLimit float64) *Router {
	return &Router{auth: auth, catalog: catalog, authMW: authMW, rateLimit: rateLimit}
}

func (r *Router) Register(g *echo.Group) {
	auth := g.Group("/auth")
	if r.rateLimit > 0 {
		auth.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(r.rateLimit))))
	}
	auth.POST("/signup", r.auth.SignUp)
	auth.POST("/login", r.auth.Login)
	auth.POST("/refresh", r.auth.Refresh)
	auth.POST("/logout", r.auth.Logout)
	auth.POST("/social-login", r.auth.SocialLogin)
	auth.GET("/google", r.auth.GoogleRedirect)
	auth.GET("/google/callback", r.auth.GoogleCallback)
	auth.POST("/verify", r.auth.VerifyToken)
	auth.GET("/me", r.auth.Me, r.authMW)

	admin := []echo.MiddlewareFunc{r.authMW, authmw.RequireRole(domain.RoleAdmin)}
	packages := g.Group("/packages")
	packages.GET("/categories", r.catalog.GetAllCategories)
	packages.GET("/categories/:id", r.catalog.GetCategory)
	packages.POST("/categories", r.catalog.CreateCategory, admin...)
	packages.PATCH("/categories/:id", r.catalog.UpdateCategory, admin...)
	packages.DELETE("/categories/:id", r.catalog.DeleteCategory, admin...)

	packages.GET("", r.catalog.GetAllPackages)
	packages.GET("/:id", r.catalog.GetPackage)
	packages.POST("", r.catalog.CreatePackage, admin...)
	packages.PATCH("/:id", r.catalog.UpdatePackage, admin...)
	packages.DELETE("/:id", r.catalog.DeletePackage, admin...)
}

package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tausif4802/ggp-backend/config"
	v1 "github.com/tausif4802/ggp-backend/internal/adapters/http/api/v1"
	internalhttp "github.com/tausif4802/ggp-backend/internal/adapters/http/internal"
	authmw "github.com/tausif4802/ggp-backend/internal/adapters/http/middleware"
	"github.com/tausif4802/ggp-backend/internal/adapters/http/validator"
)

type Router struct {
	cfg       *config.Config
	apiRouter *v1.Router
	registry  *prometheus.Registry
}

func NewRouter(cfg *config.Config, apiRouter *v1.Router, registry *prometheus.Registry) *Router {
	return &Router{cfg: cfg, apiRouter: apiRouter, registry: registry}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	// credentialed requests from any origin; the refresh cookie is SameSite=None
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  func(string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))
	e.Use(authmw.NewMetrics(r.registry).Handler)

	internalhttp.Register(e, r.registry)
	apiGroup := e.Group(r.cfg.HTTPBasePath)
	r.apiRouter.Register(apiGroup)
}

package routes

import (
	"time"

	"vespernexus/api/handler"
	"vespernexus/api/middleware"
	"vespernexus/internal/entity"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Developer      *handler.DeveloperHandler
	Vip            *handler.VipHandler
	Admin          *handler.AdminHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	developer *handler.DeveloperHandler,
	vip *handler.VipHandler,
	admin *handler.AdminHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           auth,
		Developer:      developer,
		Vip:            vip,
		Admin:          admin,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth

	api := e.Group("/api")

	api.POST("/auth/send-code", r.Auth.SendCode, r.AuthRate.Middleware())
	api.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	api.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	api.POST("/auth/forgot", r.Auth.Forgot, r.LoginRate.Middleware())
	api.POST("/auth/reset", r.Auth.Reset, r.AuthRate.Middleware())

	api.POST("/developer/bind", r.Developer.Bind, requireAuth)
	api.POST("/developer/generate", r.Developer.Generate, requireAuth, middleware.RequireRole(entity.RoleDeveloper))
	api.GET("/developer/codes", r.Developer.ListCodes, requireAuth, middleware.RequireRole(entity.RoleAdmin))
	api.POST("/developer/revoke", r.Developer.Revoke, requireAuth, middleware.RequireRole(entity.RoleAdmin))

	api.POST("/coupons", r.Vip.CreateCoupon, requireAuth, middleware.RequireRole(entity.RoleAdmin))
	api.POST("/vip/purchase", r.Vip.Purchase, requireAuth)
	// Payment channel callback; deliberately outside the auth middleware.
	api.POST("/vip/confirm", r.Vip.Confirm)

	api.GET("/admin/users", r.Admin.ListUsers, requireAuth, middleware.RequireRole(entity.RoleAdmin))
	api.POST("/admin/status", r.Admin.SetStatus, requireAuth, middleware.RequireRole(entity.RoleAdmin))
	api.GET("/audit", r.Admin.ListAudit, requireAuth, middleware.RequireRole(entity.RoleAdmin))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

package server

import (
	"gallery/internal/config"
	"gallery/internal/handler"
	"gallery/internal/repository"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// ルーティングに必要なhandler一式
type Handlers struct {
	Auth            *handler.AuthHandler
	Product         *handler.ProductHandler
	Cart            *handler.CartHandler
	Order           *handler.OrderHandler
	Address         *handler.AddressHandler
	Commission      *handler.CommissionHandler
	AdminProduct    *handler.AdminProductHandler
	AdminOrder      *handler.AdminOrderHandler
	AdminCommission *handler.AdminCommissionHandler
	AdminUser       *handler.AdminUserHandler
	AdminAnalytics  *handler.AdminAnalyticsHandler
}

func New(cfg config.Config, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, cfg, userRepo, h)
	return e
}

func Start(cfg config.Config, userRepo repository.UserRepository, h Handlers) error {
	e := New(cfg, userRepo, h)

	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}

	return e.Start(addr)
}

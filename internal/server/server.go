package server

import (
	"loja/internal/config"
	"loja/internal/handler"
	"loja/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersはルート登録に必要なhandler一式
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Stock    *handler.StockHandler
	Coupon   *handler.CouponHandler
	Delivery *handler.DeliveryHandler
}

// New はミドルウェアとルートを組んだechoを返す
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Validator = validator.New()

	registerRoutes(e, cfg, h)

	return e
}

// Start はブロックする
func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(":" + cfg.Port)
}

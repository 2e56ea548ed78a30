package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlersはルート登録に必要なハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	Return       *handler.ReturnHandler
	Catalog      *handler.CatalogHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminCatalog *handler.AdminCatalogHandler
}

func (s *Server) RegisterRoutes(h Handlers, cfg config.Config, userRepo repository.UserRepository) {
	e := s.e

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//公開API
	h.Product.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Payment.RegisterRoutes(e)
	h.Return.RegisterRoutes(e)
	h.Catalog.RegisterRoutes(e)

	//認証・管理API
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminCatalog.RegisterRoutes(e, cfg, userRepo)
	h.Return.RegisterAdminRoutes(e, cfg, userRepo)
}

package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カテゴリ・バナー・FAQ・クーポン検証の公開API
type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
	couponUC  *usecase.CouponUsecase
}

func NewCatalogHandler(catalogUC *usecase.CatalogUsecase, couponUC *usecase.CouponUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC, couponUC: couponUC}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/categories", h.listCategories)
	e.GET("/banners", h.listBanners)
	e.GET("/faqs", h.listFAQs)
	e.GET("/coupons/validate", h.validateCoupon)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	out, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// activeのみposition順
func (h *CatalogHandler) listBanners(c echo.Context) error {
	out, err := h.catalogUC.ListActiveBanners(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) listFAQs(c echo.Context) error {
	out, err := h.catalogUC.ListFAQs(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) validateCoupon(c echo.Context) error {
	out, err := h.couponUC.Validate(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

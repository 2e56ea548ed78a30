package handler

import (
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// フロントのカート実装の揺れをここで吸収する。
// product_id/id、quantity/qty、image/images[0] のどちらで来ても受ける
type orderItemRequest struct {
	ProductID *int64   `json:"product_id"`
	AltID     *int64   `json:"id"`
	Quantity  *int64   `json:"quantity"`
	Qty       *int64   `json:"qty"`
	Price     int64    `json:"price"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Images    []string `json:"images"`
	Size      string   `json:"size"`
}

type shippingAddressRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Phone     string `json:"phone"`
}

type OrderCreateRequest struct {
	ProfileID     string                 `json:"profile_id"`
	Email         string                 `json:"email"`
	Items         []orderItemRequest     `json:"items"`
	Total         int64                  `json:"total"`
	ShippingCost  int64                  `json:"shipping_cost"`
	Shipping      shippingAddressRequest `json:"shipping_address"`
	PaymentMethod string                 `json:"payment_method"`
	PointsUsed    int64                  `json:"points_used"`
	PointsEarned  int64                  `json:"points_earned"`
	CouponCode    string                 `json:"coupon_code"`
	Metadata      string                 `json:"metadata"`
}

// ゲスト注文も受けるので認証ミドルウェアは付けない
func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", h.create)
	e.GET("/orders", h.list)
	e.GET("/orders/:id", h.detail)
}

// 揺れを正規化して1つの形にする
func normalizeOrderItem(req orderItemRequest) usecase.CreateOrderItemInput {
	var productID int64
	if req.ProductID != nil {
		productID = *req.ProductID
	} else if req.AltID != nil {
		productID = *req.AltID
	}

	var qty int64
	if req.Quantity != nil {
		qty = *req.Quantity
	} else if req.Qty != nil {
		qty = *req.Qty
	}

	image := req.Image
	if image == "" && len(req.Images) > 0 {
		image = req.Images[0]
	}

	return usecase.CreateOrderItemInput{
		ProductID: productID,
		Quantity:  qty,
		Price:     req.Price,
		Name:      req.Name,
		Image:     image,
		Size:      req.Size,
	}
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.CreateOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, normalizeOrderItem(it))
	}

	var profileID *string
	if s := strings.TrimSpace(req.ProfileID); s != "" {
		profileID = &s
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateOrderInput{
		ProfileID:     profileID,
		CustomerEmail: req.Email,
		Items:         items,
		Total:         req.Total,
		ShippingCost:  req.ShippingCost,
		Shipping: model.ShippingAddress{
			FirstName: req.Shipping.FirstName,
			LastName:  req.Shipping.LastName,
			Street:    req.Shipping.Street,
			City:      req.Shipping.City,
			Region:    req.Shipping.Region,
			Phone:     req.Shipping.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		PointsUsed:    req.PointsUsed,
		PointsEarned:  req.PointsEarned,
		CouponCode:    req.CouponCode,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	email := c.QueryParam("email")

	out, err := h.uc.ListByEmail(c.Request().Context(), email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

package handler

import (
	"io"
	"net/http"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	checkoutUC *usecase.PaymentUsecase
	webhookUC  *usecase.WebhookUsecase
}

func NewPaymentHandler(checkoutUC *usecase.PaymentUsecase, webhookUC *usecase.WebhookUsecase) *PaymentHandler {
	return &PaymentHandler{checkoutUC: checkoutUC, webhookUC: webhookUC}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/checkout", h.checkout)
	e.POST("/payments/webhook", h.webhook)
}

// フィールド名はフロントに合わせてcamelCase
type CheckoutRequest struct {
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	CustomerEmail string `json:"customerEmail"`
	SuccessURL    string `json:"successUrl"`
	CancelURL     string `json:"cancelUrl"`
}

func (h *PaymentHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkoutUC.CreateCheckout(c.Request().Context(), usecase.CheckoutInput{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}

// webhookはJSONとしてbindせず、まず生のボディを読む。
// 署名は生のバイト列に対して検証するのでここの順番は変えないこと
func (h *PaymentHandler) webhook(c echo.Context) error {
	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	signature := c.Request().Header.Get(payment.SignatureHeader)

	if err := h.webhookUC.Handle(c.Request().Context(), rawBody, signature); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, WebhookAckResponse{Received: true})
}

package unit

import (
	"app/internal/handler"
	"app/internal/payment"
	"app/internal/usecase"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// CheckoutClientのスタブ。渡された入力を記録する
type checkoutClientStub struct {
	got payment.CheckoutInput
	url string
	err error
}

func (s *checkoutClientStub) CreateCheckout(ctx context.Context, in payment.CheckoutInput) (string, error) {
	s.got = in
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newPaymentTestEcho(client usecase.CheckoutClient) *echo.Echo {
	e := echo.New()

	checkoutUC := usecase.NewPaymentUsecase(client)
	webhookUC := usecase.NewWebhookUsecase(
		new(OrderRepoMock),
		webhookSecret,
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
	handler.NewPaymentHandler(checkoutUC, webhookUC).RegisterRoutes(e)

	return e
}

func postCheckout(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// フロントが送るcamelCaseのボディがそのままクライアント入力に届く
func TestPaymentHandler_Checkout_BindsCamelCaseBody(t *testing.T) {
	client := &checkoutClientStub{url: "https://pay.jeko.test/session/abc"}
	e := newPaymentTestEcho(client)

	rec := postCheckout(e, `{
		"orderId": "order-1",
		"amount": 150000,
		"customerEmail": "buyer@example.com",
		"successUrl": "https://shop.example.com/done",
		"cancelUrl": "https://shop.example.com/back"
	}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Success     bool   `json:"success"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&out)
	assert.True(t, out.Success)
	assert.Equal(t, "https://pay.jeko.test/session/abc", out.CheckoutURL)

	assert.Equal(t, "order-1", client.got.OrderID)
	assert.Equal(t, int64(150000), client.got.Amount)
	assert.Equal(t, "buyer@example.com", client.got.CustomerEmail)
	assert.Equal(t, "https://shop.example.com/done", client.got.SuccessURL)
	assert.Equal(t, "https://shop.example.com/back", client.got.CancelURL)
}

func TestPaymentHandler_Checkout_MissingOrderID(t *testing.T) {
	e := newPaymentTestEcho(&checkoutClientStub{url: "https://pay.jeko.test/x"})

	rec := postCheckout(e, `{"amount": 100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, "orderId required", body.Error)
}

// ラップされたProviderErrorでもステータスとボディがそのまま返る
func TestPaymentHandler_Checkout_WrappedProviderError(t *testing.T) {
	client := &checkoutClientStub{
		err: fmt.Errorf("create checkout: %w", &payment.ProviderError{
			Status: http.StatusUnprocessableEntity,
			Body:   `{"error":"invalid store"}`,
		}),
	}
	e := newPaymentTestEcho(client)

	rec := postCheckout(e, `{"orderId": "order-1", "amount": 100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Contains(t, body.Error, "invalid store")
}

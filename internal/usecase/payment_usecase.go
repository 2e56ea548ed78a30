package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/payment"
)

// チェックアウトセッション作成の約束
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, in payment.CheckoutInput) (string, error)
}

type PaymentUsecase struct {
	client CheckoutClient
}

func NewPaymentUsecase(client CheckoutClient) *PaymentUsecase {
	return &PaymentUsecase{client: client}
}

type CheckoutInput struct {
	OrderID       string
	Amount        int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutOutput struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckoutはプロバイダのホスト型決済ページURLを返す。
// ここでは注文のステータスを一切変えない（確定はwebhook）
func (u *PaymentUsecase) CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if strings.TrimSpace(in.OrderID) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "orderId required")
	}
	if in.Amount <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	url, err := u.client.CreateCheckout(ctx, payment.CheckoutInput{
		OrderID:       in.OrderID,
		Amount:        in.Amount,
		CustomerEmail: in.CustomerEmail,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
	})
	if err != nil {
		//プロバイダのエラーはラップされていてもステータスとボディをそのまま返す
		var pe *payment.ProviderError
		if errors.As(err, &pe) {
			return CheckoutOutput{}, NewHTTPError(pe.Status, pe.Body)
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
	}

	return CheckoutOutput{Success: true, CheckoutURL: url}, nil
}

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/config"
)

// 通貨は単一（最小単位のint64）。金額の換算はどの層でもしない
const Currency = "NGN"

// Clientは決済プロバイダ（Jeko）のホスト型チェックアウトAPIを叩く。
// ここでは何も永続化しない。注文の確定はwebhook側の仕事
type Client struct {
	baseURL    string
	apiKey     string
	keyID      string
	storeID    string
	feURL      string
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL: cfg.JekoBaseURL,
		apiKey:  cfg.JekoAPIKey,
		keyID:   cfg.JekoKeyID,
		storeID: cfg.JekoStoreID,
		feURL:   cfg.FEURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type CheckoutInput struct {
	OrderID       string
	Amount        int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type checkoutSessionRequest struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	StoreID       string `json:"store_id"`
	Reference     string `json:"reference"`
	CustomerEmail string `json:"customer_email,omitempty"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
}

type checkoutSessionResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// プロバイダの非2xxはボディごとそのまま呼び出し元へ返す
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Status, e.Body)
}

// CreateCheckoutはチェックアウトセッションを作り、ホスト型決済ページのURLを返す。
// 金額は受け取った値をそのまま送る（換算しない）。
// 5xxと通信エラーだけ1回リトライする。webhook側では絶対にリトライしない
func (c *Client) CreateCheckout(ctx context.Context, in CheckoutInput) (string, error) {
	successURL := in.SuccessURL
	if successURL == "" {
		successURL = c.feURL + "/checkout/success?order=" + in.OrderID
	}
	cancelURL := in.CancelURL
	if cancelURL == "" {
		cancelURL = c.feURL + "/checkout/cancel?order=" + in.OrderID
	}

	reqBody := checkoutSessionRequest{
		Amount:        in.Amount,
		Currency:      Currency,
		StoreID:       c.storeID,
		Reference:     in.OrderID,
		CustomerEmail: in.CustomerEmail,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(200 * time.Millisecond)
		}

		url, err := c.doCreate(ctx, body)
		if err == nil {
			return url, nil
		}

		//4xxはリトライしても無駄なので即返す
		var pe *ProviderError
		if errors.As(err, &pe) && pe.Status < 500 {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

func (c *Client) doCreate(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/checkout-sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Api-Key-Id", c.keyID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var out checkoutSessionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", fmt.Errorf("provider response missing checkout_url")
	}

	return out.CheckoutURL, nil
}

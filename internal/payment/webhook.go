package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// webhookの署名ヘッダ名
const SignatureHeader = "jeko-signature"

// 支払い完了イベント
const EventTransactionCompleted = "transaction.completed"

// webhookのイベント封筒。検証が通るまでパースしてはいけない
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	Status    string                 `json:"status"`
	Reference string                 `json:"reference"`
	PaymentID string                 `json:"payment_id"`
	Amount    int64                  `json:"amount"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// 注文IDはreference優先、なければmetadata.order_id
func (d WebhookData) OrderID() string {
	if d.Reference != "" {
		return d.Reference
	}
	if d.Metadata != nil {
		if v, ok := d.Metadata["order_id"].(string); ok {
			return v
		}
	}
	return ""
}

// Signは生のボディに対するhex HMAC-SHA256を返す（テストでも使う）
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignatureは生のバイト列に対して署名を検証する。
// JSONとしてパースした後のボディで呼んではいけない
func VerifySignature(body []byte, signature string, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEventは検証済みボディをイベント封筒として読む
func ParseEvent(body []byte) (WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return WebhookEvent{}, err
	}
	return ev, nil
}

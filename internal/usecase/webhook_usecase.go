package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"app/internal/payment"
	repo "app/internal/repository"
)

type WebhookUsecase struct {
	orders repo.OrderRepository
	secret string
	clock  Clock
}

func NewWebhookUsecase(orders repo.OrderRepository, secret string, clock Clock) *WebhookUsecase {
	return &WebhookUsecase{orders: orders, secret: secret, clock: clock}
}

// Handleはwebhookを処理する。順番が重要：
//  1. 生のボディに対して署名検証（パースより前）
//  2. 検証が通ってからJSONとして読む
//  3. 支払い成功イベントだけ注文をPAIDにする
//
// 署名が通った後は、注文が見つからなくても更新に失敗しても200で
// 受領する（プロバイダ側の再送ストームを防ぐ）。失敗はログに残す
func (u *WebhookUsecase) Handle(ctx context.Context, rawBody []byte, signature string) error {
	if !payment.VerifySignature(rawBody, signature, u.secret) {
		return NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	ev, err := payment.ParseEvent(rawBody)
	if err != nil {
		//署名は正しいのにボディが読めない。受領して捨てる
		log.Printf("webhook: パース失敗: %v", err)
		return nil
	}

	//支払い成功以外のイベントは受領のみ
	if ev.Event != payment.EventTransactionCompleted || ev.Data.Status != "success" {
		return nil
	}

	orderID := ev.Data.OrderID()
	if orderID == "" {
		log.Printf("webhook: 注文IDが無いイベントを受領 event=%s", ev.Event)
		return nil
	}

	//プロバイダのメタデータに確定時刻を足して保存する
	meta := map[string]interface{}{}
	for k, v := range ev.Data.Metadata {
		meta[k] = v
	}
	meta["paid_at"] = u.clock.Now().Format(time.RFC3339)
	meta["amount"] = ev.Data.Amount
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	//同じイベントの再送は同じ上書きになるだけ（結果は冪等）
	err = u.orders.MarkPaid(ctx, orderID, ev.Data.PaymentID, string(metaJSON))
	if errors.Is(err, repo.ErrNotFound) {
		log.Printf("webhook: 注文が見つからない order_id=%s", orderID)
		return nil
	}
	if err != nil {
		//1回だけ再試行。それでもだめならログだけ残して受領する
		if err2 := u.orders.MarkPaid(ctx, orderID, ev.Data.PaymentID, string(metaJSON)); err2 != nil {
			log.Printf("webhook: 注文更新失敗 order_id=%s: %v", orderID, err2)
		}
	}

	return nil
}

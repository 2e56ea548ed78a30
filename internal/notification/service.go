package notification

import (
	"fmt"
	"strings"

	"app/internal/domain/model"
)

// Serviceは注文・返品のイベントをメール文面に起こしてキューに積む。
// どのメソッドもfire-and-forgetで、エラーを返さない
type Service struct {
	dispatcher *Dispatcher
	adminEmail string
}

func NewService(dispatcher *Dispatcher, adminEmail string) *Service {
	return &Service{
		dispatcher: dispatcher,
		adminEmail: adminEmail,
	}
}

// 注文確認（顧客宛、管理者BCC）
func (s *Service) NotifyOrderConfirmation(o model.Order, items []model.OrderItem) {
	if o.CustomerEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s様\n\n", customerName(o))
	fmt.Fprintf(&b, "ご注文ありがとうございます。注文番号: %s\n\n", o.ID)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s x%d %s\n", it.Name, it.Quantity, formatAmount(it.UnitPrice*it.Quantity))
	}
	if o.ShippingCost > 0 {
		fmt.Fprintf(&b, "送料: %s\n", formatAmount(o.ShippingCost))
	}
	if o.CouponCode != "" {
		fmt.Fprintf(&b, "クーポン: %s\n", o.CouponCode)
	}
	fmt.Fprintf(&b, "合計: %s\n", formatAmount(o.Total))

	var bcc []string
	if s.adminEmail != "" {
		bcc = []string{s.adminEmail}
	}

	s.dispatcher.Enqueue(Message{
		To:      []string{o.CustomerEmail},
		Bcc:     bcc,
		Subject: fmt.Sprintf("ご注文確認 #%s", shortID(o.ID)),
		Body:    b.String(),
	})
}

// ステータス変更（顧客宛）
func (s *Service) NotifyOrderStatus(o model.Order) {
	if o.CustomerEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s様\n\n", customerName(o))
	fmt.Fprintf(&b, "注文 %s のステータスが「%s」に変わりました。\n", o.ID, o.Status)

	s.dispatcher.Enqueue(Message{
		To:      []string{o.CustomerEmail},
		Subject: fmt.Sprintf("ご注文状況の更新 #%s", shortID(o.ID)),
		Body:    b.String(),
	})
}

// 返品依頼（管理者宛のみ）
func (s *Service) NotifyReturnRequested(r model.ReturnRequest, o model.Order) {
	if s.adminEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "返品依頼が届きました。\n\n")
	fmt.Fprintf(&b, "依頼ID: %s\n", r.ID)
	fmt.Fprintf(&b, "注文ID: %s\n", r.OrderID)
	fmt.Fprintf(&b, "理由: %s\n", r.Reason)

	s.dispatcher.Enqueue(Message{
		To:      []string{s.adminEmail},
		Subject: fmt.Sprintf("返品依頼 #%s", shortID(r.ID)),
		Body:    b.String(),
	})
}

func customerName(o model.Order) string {
	name := strings.TrimSpace(o.Shipping.FirstName + " " + o.Shipping.LastName)
	if name == "" {
		return "お客"
	}
	return name
}

// 最小通貨単位のint64を表示用に直す
func formatAmount(v int64) string {
	return fmt.Sprintf("NGN %.2f", float64(v)/100)
}

// メール件名用にuuidの先頭だけ使う
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

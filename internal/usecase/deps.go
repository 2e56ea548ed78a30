package usecase

import (
	"time"

	"app/internal/domain/model"
)

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 通知はfire-and-forget。呼び出し側を絶対にブロックも失敗もさせない
type Notifier interface {
	NotifyOrderConfirmation(o model.Order, items []model.OrderItem)
	NotifyOrderStatus(o model.Order)
	NotifyReturnRequested(r model.ReturnRequest, o model.Order)
}

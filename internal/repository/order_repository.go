package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	Email  string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	ListByEmail(ctx context.Context, email string, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) error

	//部分更新（管理画面のPUT）。渡されたカラムだけ更新する
	UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error

	//webhook確定。status=PAIDと支払いID・メタデータをまとめて書く
	MarkPaid(ctx context.Context, orderID string, paymentRef string, metadata string) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

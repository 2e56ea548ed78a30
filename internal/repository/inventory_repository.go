package repository

import (
	"app/internal/domain/model"
	"context"
)

// 在庫の読み書き。数量の加減算はSQL側で行い、読み直してから書く経路は作らない
type InventoryRepository interface {
	// 管理者による在庫の直接設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 注文確定時の引き当て。足りなければfalse（エラーにはしない）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// キャンセル・返品での戻し
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 変更履歴（差分）の追記
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}

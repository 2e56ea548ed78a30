package model

import "time"

// 注文明細。作成後は不変
type OrderItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`

	//注文時点のスナップショット
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
	Image     string `gorm:"type:varchar(512)" json:"image"`
	Size      string `gorm:"type:varchar(50)" json:"size"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

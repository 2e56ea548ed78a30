package model

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// 配送先。注文行に埋め込みで保存する
type ShippingAddress struct {
	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
	Street    string `gorm:"type:varchar(255)" json:"street"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	Region    string `gorm:"type:varchar(100)" json:"region"`
	Phone     string `gorm:"type:varchar(30)" json:"phone"`
}

// 注文。削除はしない（ステータスのみで管理）
type Order struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID *string `gorm:"type:uuid;index" json:"profile_id"`

	//ゲスト注文でも通知に使うのでemailは注文側にも持つ
	CustomerEmail string `gorm:"type:varchar(255);index" json:"customer_email"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//金額は全て最小通貨単位（kobo）のint64
	Total        int64 `gorm:"not null" json:"total"`
	ShippingCost int64 `gorm:"not null;default:0" json:"shipping_cost"`

	Shipping ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	PaymentMethod string `gorm:"type:varchar(50)" json:"payment_method"`

	PointsUsed   int64  `gorm:"not null;default:0" json:"points_used"`
	PointsEarned int64  `gorm:"not null;default:0" json:"points_earned"`
	CouponCode   string `gorm:"type:varchar(50)" json:"coupon_code"`

	//決済プロバイダの支払いID（webhook確定時に入る）
	PaymentRef string `gorm:"type:varchar(255)" json:"payment_ref"`

	//プロバイダのエコー等をJSON文字列で保存
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

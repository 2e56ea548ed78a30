package model

import "time"

type LoyaltyTier string

const (
	TierBronze LoyaltyTier = "BRONZE"
	TierSilver LoyaltyTier = "SILVER"
	TierGold   LoyaltyTier = "GOLD"
)

// 顧客プロフィール。作成は外部の認証基盤側で行うので、
// この注文フローでは更新のみ（insertはしない）。
type Profile struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName     string      `gorm:"type:varchar(100)" json:"first_name"`
	LastName      string      `gorm:"type:varchar(100)" json:"last_name"`
	LoyaltyPoints int64       `gorm:"not null;default:0" json:"loyalty_points"`
	Tier          LoyaltyTier `gorm:"type:varchar(20);not null;default:'BRONZE'" json:"tier"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

package model

import "time"

// クーポン（割引率のみ）
type Coupon struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	PercentOff int64      `gorm:"not null" json:"percent_off"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

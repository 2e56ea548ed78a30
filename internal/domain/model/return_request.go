package model

import "time"

type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "PENDING"
	ReturnStatusApproved ReturnStatus = "APPROVED"
	ReturnStatusRejected ReturnStatus = "REJECTED"
	ReturnStatusResolved ReturnStatus = "RESOLVED"
)

// 返品依頼。注文本体のステータスは変えない
type ReturnRequest struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProfileID string       `gorm:"type:uuid;index" json:"profile_id"`
	Reason    string       `gorm:"type:text;not null" json:"reason"`
	Status    ReturnStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

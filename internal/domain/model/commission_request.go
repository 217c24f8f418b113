package model

import "time"

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "PENDING"
	CommissionStatusReviewed  CommissionStatus = "REVIEWED"
	CommissionStatusAccepted  CommissionStatus = "ACCEPTED"
	CommissionStatusDeclined  CommissionStatus = "DECLINED"
	CommissionStatusCompleted CommissionStatus = "COMPLETED"
)

// カスタムオーダー（制作依頼）。
// ユーザーが内容と予算を出し、管理者がステータスとメモで返す。
type CommissionRequest struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Description     string `gorm:"type:text;not null" json:"description"`
	PreferredMedium string `gorm:"type:varchar(100)" json:"preferred_medium"`

	//予算（セント）
	Budget int64 `gorm:"not null" json:"budget"`

	Status    CommissionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminNote string           `gorm:"type:varchar(500)" json:"admin_note"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

package model

import "time"

type OtpPurpose string

const (
	//注文確定用
	OtpPurposeOrderPlacement OtpPurpose = "ORDER_PLACEMENT"
)

// ワンタイムコード。
// 発行のたびに新しい行を作り、使用済みでも削除しない（監査とリプレイ防止）。
// 有効条件: used == false かつ 期限内 かつ purpose/user/code が一致。
type OneTimeCode struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Purpose   OtpPurpose `gorm:"type:varchar(30);not null;index" json:"purpose"`
	Code      string     `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

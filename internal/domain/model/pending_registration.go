package model

import "time"

// 会員登録の途中状態。
// セッションに持たせず、サーバー発行トークンをキーにした短命の行として保存する。
// 期限・単回使用のルールはOneTimeCodeと同じ。
type PendingRegistration struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Token        string    `gorm:"type:uuid;not null;uniqueIndex" json:"token"`
	Email        string    `gorm:"not null;index" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Code         string    `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	Used         bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

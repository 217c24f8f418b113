package model

import (
	"time"

	"gorm.io/gorm"
)

// ギャラリーで販売する作品。
// 過去の注文から参照されるため物理削除はしない（SoftDeleteのみ）。
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Artist      string `gorm:"type:varchar(255);not null" json:"artist"`
	Medium      string `gorm:"type:varchar(100)" json:"medium"`
	Description string `gorm:"type:text" json:"description"`

	//価格は最小通貨単位（セント）
	Price int64 `gorm:"not null" json:"price"`
	Stock int64 `gorm:"not null" json:"stock"`

	//管理者が公開にしているか
	IsActive bool `gorm:"not null;default:false" json:"is_active"`

	ImageURL string `gorm:"type:varchar(500)" json:"image_url"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 在庫ありかつ公開中のときだけ販売できる
func (p Product) IsAvailable() bool {
	return p.IsActive && p.Stock > 0
}

package model

import "time"

// 注文ステータスの変更履歴。上書きせず常に追記する。
type OrderStatusHistory struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64       `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `gorm:"type:varchar(500)" json:"note"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}

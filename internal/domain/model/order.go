package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// 確定した注文。削除操作は存在しない。
// 配送先は注文時点のスナップショットとして埋め込む（住所帳の後日編集と切り離す）。
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//人間可読の注文番号（GLR-xxxxxxxxxx-XXXX）。一意
	OrderNumber string `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//金額内訳（セント）
	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	ShippingFee int64 `gorm:"not null" json:"shipping_fee"`
	Tax         int64 `gorm:"not null" json:"tax"`
	TotalPrice  int64 `gorm:"not null" json:"total_price"`

	//配送先スナップショット
	ShipName       string `gorm:"type:varchar(255);not null" json:"ship_name"`
	ShipPhone      string `gorm:"type:varchar(30)" json:"ship_phone"`
	ShipPostalCode string `gorm:"type:varchar(20);not null" json:"ship_postal_code"`
	ShipPrefecture string `gorm:"type:varchar(100);not null" json:"ship_prefecture"`
	ShipCity       string `gorm:"type:varchar(255);not null" json:"ship_city"`
	ShipLine1      string `gorm:"type:varchar(255);not null" json:"ship_line1"`
	ShipLine2      string `gorm:"type:varchar(255)" json:"ship_line2"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

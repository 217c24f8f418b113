package model

import "time"

// 注文明細。作品側が後から編集されても変わらないよう、
// タイトル・価格・画像を注文時点でスナップショットする。
type OrderItem struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64     `gorm:"not null;index" json:"order_id"`
	ProductID            int64     `gorm:"not null;index" json:"product_id"`
	ProductTitleSnapshot string    `gorm:"type:varchar(255);not null" json:"product_title_snapshot"`
	UnitPriceSnapshot    int64     `gorm:"not null" json:"unit_price_snapshot"`
	ImageURLSnapshot     string    `gorm:"type:varchar(500)" json:"image_url_snapshot"`
	Quantity             int64     `gorm:"not null" json:"quantity"`
	CreatedAt            time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

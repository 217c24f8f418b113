package repository

import (
	"context"
	"time"

	"gallery/internal/domain/model"
)

// 販売数の多い作品（管理画面用）
type TopProduct struct {
	ProductID    int64  `json:"product_id"`
	Title        string `json:"title"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	TopProducts(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]TopProduct, error)
}

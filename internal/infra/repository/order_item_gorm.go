package repository

import (
	"context"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

// 期間内で販売数の多い作品。キャンセル済み注文の明細は除く
func (r *OrderItemGormRepository) TopProducts(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]repo.TopProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	q := r.db.WithContext(ctx).
		Table("order_items").
		Joins("join orders on orders.id = order_items.order_id").
		Where("orders.status <> ?", model.OrderStatusCanceled)

	if from != nil {
		q = q.Where("orders.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("orders.created_at <= ?", *to)
	}

	var results []repo.TopProduct
	err := q.
		Select(`order_items.product_id AS product_id,
			MAX(order_items.product_title_snapshot) AS title,
			SUM(order_items.quantity) AS quantity_sold,
			SUM(order_items.unit_price_snapshot * order_items.quantity) AS revenue`).
		Group("order_items.product_id").
		Order("quantity_sold desc").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

package repository

import (
	"context"
	"time"

	"gallery/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// 売上サマリー（管理画面用）
type SalesSummary struct {
	OrderCount    int64            `json:"order_count"`
	Revenue       int64            `json:"revenue"`
	CountByStatus map[string]int64 `json:"count_by_status"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)

	//order_numberの一意制約違反はgorm.ErrDuplicatedKeyで返る
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//期間内の注文数・売上・ステータス別件数を集計（CANCELEDは売上から除く）
	SalesSummary(ctx context.Context, from *time.Time, to *time.Time) (SalesSummary, error)
}

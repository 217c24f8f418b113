package repository

import (
	"context"

	"gallery/internal/domain/model"
)

// ステータス履歴は追記のみ。更新・削除の操作は持たない。
type OrderStatusHistoryRepository interface {
	Append(ctx context.Context, h model.OrderStatusHistory) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error)
}

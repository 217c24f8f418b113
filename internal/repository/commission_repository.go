package repository

import (
	"context"

	"gallery/internal/domain/model"
)

type CommissionListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
}

// 制作依頼の保存・取得・ステータス更新。
type CommissionRepository interface {
	Create(ctx context.Context, req model.CommissionRequest) (int64, error)
	FindByID(ctx context.Context, id int64) (model.CommissionRequest, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.CommissionRequest, error)
	List(ctx context.Context, f CommissionListFilter) ([]model.CommissionRequest, int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.CommissionStatus, adminNote string) error
}

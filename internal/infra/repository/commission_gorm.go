package repository

import (
	"context"
	"errors"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type CommissionGormRepository struct {
	db *gorm.DB
}

// DI
func NewCommissionGormRepository(db *gorm.DB) *CommissionGormRepository {
	return &CommissionGormRepository{db: db}
}

func (r *CommissionGormRepository) Create(ctx context.Context, req model.CommissionRequest) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (r *CommissionGormRepository) FindByID(ctx context.Context, id int64) (model.CommissionRequest, error) {
	var req model.CommissionRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CommissionRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CommissionRequest{}, err
	}
	return req, nil
}

func (r *CommissionGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CommissionRequest, error) {
	var list []model.CommissionRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&list).Error
	if err != nil {
		return []model.CommissionRequest{}, err
	}
	return list, nil
}

func (r *CommissionGormRepository) List(ctx context.Context, f repo.CommissionListFilter) ([]model.CommissionRequest, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.CommissionRequest{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.CommissionRequest{}, 0, err
	}

	var list []model.CommissionRequest
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&list).Error; err != nil {
		return []model.CommissionRequest{}, 0, err
	}

	return list, total, nil
}

func (r *CommissionGormRepository) UpdateStatus(ctx context.Context, id int64, status model.CommissionStatus, adminNote string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CommissionRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": adminNote,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

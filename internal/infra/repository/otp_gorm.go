package repository

import (
	"context"
	"errors"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type OneTimeCodeGormRepository struct {
	db *gorm.DB
}

func NewOneTimeCodeGormRepository(db *gorm.DB) *OneTimeCodeGormRepository {
	return &OneTimeCodeGormRepository{db: db}
}

func (r *OneTimeCodeGormRepository) Create(ctx context.Context, code model.OneTimeCode) error {
	if err := r.db.WithContext(ctx).Create(&code).Error; err != nil {
		return err
	}
	return nil
}

// 条件付きUPDATE1本で「照合して使用済みにする」を同時に行う。
// 2回目の消費・期限切れ・コード違いはどれも0件更新＝falseになり、理由は区別しない
func (r *OneTimeCodeGormRepository) Consume(ctx context.Context, userID int64, purpose model.OtpPurpose, code string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.OneTimeCode{}).
		Where("user_id = ? AND purpose = ? AND code = ? AND used = FALSE AND expires_at > ?",
			userID, purpose, code, now).
		Update("used", true)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type PendingRegistrationGormRepository struct {
	db *gorm.DB
}

func NewPendingRegistrationGormRepository(db *gorm.DB) *PendingRegistrationGormRepository {
	return &PendingRegistrationGormRepository{db: db}
}

func (r *PendingRegistrationGormRepository) Create(ctx context.Context, pending model.PendingRegistration) error {
	if err := r.db.WithContext(ctx).Create(&pending).Error; err != nil {
		return err
	}
	return nil
}

func (r *PendingRegistrationGormRepository) FindActiveByToken(ctx context.Context, token string, now time.Time) (model.PendingRegistration, error) {
	var p model.PendingRegistration

	err := r.db.WithContext(ctx).
		Where("token = ? AND used = FALSE AND expires_at > ?", token, now).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PendingRegistration{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PendingRegistration{}, err
	}
	return p, nil
}

// 未使用のときだけ使用済みへ。二重消費は0件更新でfalse
func (r *PendingRegistrationGormRepository) MarkUsed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PendingRegistration{}).
		Where("id = ? AND used = FALSE", id).
		Update("used", true)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

package usecase

import (
	"context"
	"net/http"
	"strings"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

type CommissionUsecase struct {
	commissionRepo repo.CommissionRepository
	auditRepo      repo.AuditLogRepository
	clock          Clock
}

func NewCommissionUsecase(
	commissionRepo repo.CommissionRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *CommissionUsecase {
	return &CommissionUsecase{
		commissionRepo: commissionRepo,
		auditRepo:      auditRepo,
		clock:          clock,
	}
}

type CreateCommissionInput struct {
	Description     string
	PreferredMedium string
	Budget          int64
}

// 制作依頼を受け付ける。ステータスはPENDINGから始まる
func (u *CommissionUsecase) Create(ctx context.Context, userID int64, in CreateCommissionInput) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Description) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "description required")
	}
	if len(in.Description) > 4000 {
		return 0, NewHTTPError(http.StatusBadRequest, "description too long")
	}
	if in.Budget < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "budget must be >= 0")
	}

	now := u.clock.Now()
	id, err := u.commissionRepo.Create(ctx, model.CommissionRequest{
		UserID:          userID,
		Description:     strings.TrimSpace(in.Description),
		PreferredMedium: strings.TrimSpace(in.PreferredMedium),
		Budget:          in.Budget,
		Status:          model.CommissionStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

func (u *CommissionUsecase) ListMine(ctx context.Context, userID int64) ([]model.CommissionRequest, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.commissionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CommissionUsecase) GetMine(ctx context.Context, userID int64, id int64) (model.CommissionRequest, error) {
	if userID <= 0 {
		return model.CommissionRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.CommissionRequest{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	req, err := u.commissionRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.CommissionRequest{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.CommissionRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の依頼は「存在しない扱い」にする
	if req.UserID != userID {
		return model.CommissionRequest{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return req, nil
}

type CommissionListOutput struct {
	Items []model.CommissionRequest `json:"items"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

func (u *CommissionUsecase) AdminList(ctx context.Context, f repo.CommissionListFilter) (CommissionListOutput, error) {
	if f.Page < 1 {
		return CommissionListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return CommissionListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	switch f.Status {
	case "", "PENDING", "REVIEWED", "ACCEPTED", "DECLINED", "COMPLETED":
	default:
		return CommissionListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	items, total, err := u.commissionRepo.List(ctx, f)
	if err != nil {
		return CommissionListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CommissionListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

type AdminUpdateCommissionInput struct {
	Status    string
	AdminNote string
}

// ステータス変更＋管理者メモ。監査ログを残す
func (u *CommissionUsecase) AdminUpdateStatus(ctx context.Context, actorAdminUserID int64, id int64, in AdminUpdateCommissionInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := strings.TrimSpace(in.Status)
	switch newStatus {
	case "REVIEWED", "ACCEPTED", "DECLINED", "COMPLETED":
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if len(in.AdminNote) > 500 {
		return NewHTTPError(http.StatusBadRequest, "note too long")
	}

	req, err := u.commissionRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//終端ガード
	if req.Status == model.CommissionStatusDeclined || req.Status == model.CommissionStatusCompleted {
		return NewHTTPError(http.StatusBadRequest, "cannot change closed request")
	}
	if string(req.Status) == newStatus {
		return nil
	}

	if err := u.commissionRepo.UpdateStatus(ctx, id, model.CommissionStatus(newStatus), strings.TrimSpace(in.AdminNote)); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON := `{"status":"` + string(req.Status) + `"}`
	afterJSON := `{"status":"` + newStatus + `"}`
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateCommissionStatus,
		ResourceType: model.AuditResourceCommission,
		ResourceID:   id,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

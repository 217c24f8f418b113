package usecase

import (
	"context"
	"net/http"
	"time"

	repo "gallery/internal/repository"
)

// 管理画面の集計（売上サマリー・売れ筋）
type AnalyticsUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

func NewAnalyticsUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{orderRepo: orderRepo, orderItemRepo: orderItemRepo}
}

func (u *AnalyticsUsecase) SalesSummary(ctx context.Context, from *time.Time, to *time.Time) (repo.SalesSummary, error) {
	if from != nil && to != nil && from.After(*to) {
		return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	s, err := u.orderRepo.SalesSummary(ctx, from, to)
	if err != nil {
		return repo.SalesSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *AnalyticsUsecase) TopProducts(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]repo.TopProduct, error) {
	if limit < 1 || limit > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	list, err := u.orderItemRepo.TopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

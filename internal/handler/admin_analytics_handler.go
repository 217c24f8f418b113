package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gallery/internal/config"
	"gallery/internal/middleware"
	"gallery/internal/repository"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理画面の集計API
type AdminAnalyticsHandler struct {
	uc *usecase.AnalyticsUsecase
}

func NewAdminAnalyticsHandler(uc *usecase.AnalyticsUsecase) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{uc: uc}
}

func (h *AdminAnalyticsHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/analytics/sales", h.sales)
	admin.GET("/analytics/top-products", h.topProducts)
}

func (h *AdminAnalyticsHandler) sales(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, uerr := h.uc.SalesSummary(c.Request().Context(), from, to)
	if uerr != nil {
		return writeError(c, uerr)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminAnalyticsHandler) topProducts(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, uerr := h.uc.TopProducts(c.Request().Context(), from, to, limit)
	if uerr != nil {
		return writeError(c, uerr)
	}
	return c.JSON(http.StatusOK, out)
}

func parsePeriod(c echo.Context) (*time.Time, *time.Time, error) {
	var from *time.Time
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, errors.New("invalid from")
		}
		from = &tm
	}

	var to *time.Time
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, errors.New("invalid to")
		}
		to = &tm
	}

	return from, to, nil
}

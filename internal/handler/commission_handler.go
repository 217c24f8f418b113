package handler

import (
	"net/http"
	"strconv"

	"gallery/internal/config"
	"gallery/internal/middleware"
	"gallery/internal/repository"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /commissions（制作依頼）のHTTP
type CommissionHandler struct {
	uc *usecase.CommissionUsecase
}

func NewCommissionHandler(uc *usecase.CommissionUsecase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

type CommissionCreateRequest struct {
	Description     string `json:"description"`
	PreferredMedium string `json:"preferred_medium"`
	Budget          int64  `json:"budget"`
}

type CommissionCreateResponse struct {
	ID int64 `json:"id"`
}

func (h *CommissionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/commissions")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create)
	g.GET("", h.listMine)
	g.GET("/:id", h.detail)
}

func (h *CommissionHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CommissionCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateCommissionInput{
		Description:     req.Description,
		PreferredMedium: req.PreferredMedium,
		Budget:          req.Budget,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CommissionCreateResponse{ID: id})
}

func (h *CommissionHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	list, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CommissionHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	req, err := h.uc.GetMine(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// /admin/commissions
type AdminCommissionHandler struct {
	uc *usecase.CommissionUsecase
}

func NewAdminCommissionHandler(uc *usecase.CommissionUsecase) *AdminCommissionHandler {
	return &AdminCommissionHandler{uc: uc}
}

type CommissionStatusUpdateRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

func (h *AdminCommissionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/commissions", h.list)
	admin.PATCH("/commissions/:id/status", h.updateStatus)
}

func (h *AdminCommissionHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	status := c.QueryParam("status")

	var userID *int64
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		userID = &id
	}

	out, err := h.uc.AdminList(c.Request().Context(), repository.CommissionListFilter{
		Page:   page,
		Limit:  limit,
		Status: status,
		UserID: userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCommissionHandler) updateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CommissionStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminUpdateStatus(
		c.Request().Context(),
		adminID,
		id,
		usecase.AdminUpdateCommissionInput{Status: req.Status, AdminNote: req.AdminNote},
	); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

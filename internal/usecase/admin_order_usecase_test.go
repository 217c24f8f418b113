package usecase_test

import (
	"context"
	"testing"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
	"gallery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type adminOrderFixture struct {
	tx         *TxManagerMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	history    *StatusHistoryRepoMock
	inventory  *InventoryRepoMock
	audit      *AuditRepoMock
	uc         *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() *adminOrderFixture {
	f := &adminOrderFixture{
		orders:     &OrderRepoMock{},
		orderItems: &OrderItemRepoMock{},
		history:    &StatusHistoryRepoMock{},
		inventory:  &InventoryRepoMock{},
		audit:      &AuditRepoMock{},
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		orders:        f.orders,
		orderItems:    f.orderItems,
		statusHistory: f.history,
		inventory:     f.inventory,
	}}
	f.uc = usecase.NewAdminOrderUsecase(f.tx, f.audit, fixedClock{t: testNow})
	return f
}

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})

	assertErrContains(t, err, "invalid page")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestAdminOrderUsecase_List_InvalidStatus(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "REFUNDED"})

	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_List_ReturnsOrdersWithItems(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	filter := repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "PENDING"}
	f.orders.On("ListAdmin", mock.Anything, filter).Return([]model.Order{
		{ID: 1, OrderNumber: "GLR-1756728000-ABCD", UserID: 5, Status: model.OrderStatusPending, TotalPrice: 4200},
	}, int64(1), nil)
	f.orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{
		{ID: 1, OrderID: 1, ProductID: 100, ProductTitleSnapshot: "Sunset Oil", UnitPriceSnapshot: 1000, Quantity: 2},
	}, nil)

	out, err := f.uc.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	if assert.Len(t, out.Items, 1) {
		assert.Equal(t, "GLR-1756728000-ABCD", out.Items[0].OrderNumber)
		assert.Len(t, out.Items[0].Items, 1)
	}
}

func TestAdminOrderUsecase_GetDetail_NotFound(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, _, err := f.uc.GetDetail(context.Background(), 99)

	assertErrContains(t, err, "not found")
}

func TestAdminOrderUsecase_GetDetail_IncludesHistory(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPaid}, nil)
	f.orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.history.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderStatusHistory{
		{OrderID: 1, Status: model.OrderStatusPending, Note: "order placed"},
		{OrderID: 1, Status: model.OrderStatusPaid, Note: "payment confirmed"},
	}, nil)

	out, history, err := f.uc.GetDetail(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	if assert.Len(t, history, 2) {
		assert.Equal(t, "PENDING", history[0].Status)
		assert.Equal(t, "payment confirmed", history[1].Note)
	}
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newAdminOrderFixture()

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "REFUNDED"})

	assertErrContains(t, err, "invalid status")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPaid}, nil)

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})

	assert.NoError(t, err)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_CannotChangeCanceled(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusCanceled}, nil)

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})

	assertErrContains(t, err, "cannot change canceled order")
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_CannotChangeShipped(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusShipped}, nil)

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "CANCELED"})

	assertErrContains(t, err, "cannot change shipped order")
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// キャンセル時は明細ぶんの在庫を戻し、履歴と監査ログを残す
func TestAdminOrderUsecase_UpdateStatus_CancelRestocksItems(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPaid}, nil)
	f.orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{
		{ID: 1, OrderID: 1, ProductID: 100, Quantity: 2},
		{ID: 2, OrderID: 1, ProductID: 200, Quantity: 1},
	}, nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(200), int64(1)).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCanceled).Return(nil)

	var appended model.OrderStatusHistory
	f.history.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		appended = args.Get(1).(model.OrderStatusHistory)
	}).Return(nil)

	var logged model.AuditLog
	f.audit.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		logged = args.Get(1).(model.AuditLog)
	}).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "CANCELED", Note: "customer request"})

	assert.NoError(t, err)
	f.inventory.AssertExpectations(t)
	assert.Equal(t, model.OrderStatusCanceled, appended.Status)
	assert.Equal(t, "customer request", appended.Note)
	assert.Equal(t, int64(9), logged.ActorUserID)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logged.Action)
	assert.Equal(t, `{"status":"PAID"}`, logged.BeforeJSON)
	assert.Equal(t, `{"status":"CANCELED"}`, logged.AfterJSON)
}

// PENDING→PAIDのような通常遷移は在庫に触らない
func TestAdminOrderUsecase_UpdateStatus_ForwardTransitionSkipsRestock(t *testing.T) {
	f := newAdminOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPending}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusPaid).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})

	assert.NoError(t, err)
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
	"gallery/internal/usecase"
	"gallery/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type checkoutFixture struct {
	tx         *TxManagerMock
	txRepos    *TxReposMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	inventory  *InventoryRepoMock
	products   *ProductRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	history    *StatusHistoryRepoMock
	otpRepo    *OneTimeCodeRepoMock
	users      *UserRepoMock
	sender     *SenderMock
	uc         *usecase.CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:      &CartRepoMock{},
		cartItems:  &CartItemRepoMock{},
		inventory:  &InventoryRepoMock{},
		products:   &ProductRepoMock{},
		orders:     &OrderRepoMock{},
		orderItems: &OrderItemRepoMock{},
		history:    &StatusHistoryRepoMock{},
		otpRepo:    &OneTimeCodeRepoMock{},
		users:      &UserRepoMock{},
		sender:     &SenderMock{},
	}
	f.txRepos = &TxReposMock{
		orders:        f.orders,
		orderItems:    f.orderItems,
		statusHistory: f.history,
		carts:         f.carts,
		cartItems:     f.cartItems,
		inventory:     f.inventory,
		products:      f.products,
	}
	f.tx = &TxManagerMock{Repos: f.txRepos}
	clock := fixedClock{t: testNow}
	otpUC := usecase.NewOtpUsecase(f.otpRepo, f.users, f.sender, clock, 10*time.Minute)
	f.uc = usecase.NewCheckoutUsecase(
		f.tx,
		f.carts,
		f.cartItems,
		otpUC,
		validator.NewShippingValidator(),
		usecase.PricingConfig{ShippingFlatFee: 1500, TaxRatePercent: 8},
		clock,
	)
	return f
}

func validShipping() usecase.ShippingInfo {
	return usecase.ShippingInfo{
		Name:       "山田 太郎",
		Phone:      "090-1234-5678",
		PostalCode: "150-0001",
		Prefecture: "Tokyo",
		City:       "Shibuya",
		Line1:      "1-2-3 Jingumae",
	}
}

func TestCheckoutUsecase_RequestCheckoutOtp_NoActiveCart(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	err := f.uc.RequestCheckoutOtp(context.Background(), 1)

	assertErrContains(t, err, "cart empty")
	f.otpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_RequestCheckoutOtp_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	err := f.uc.RequestCheckoutOtp(context.Background(), 1)

	assertErrContains(t, err, "cart empty")
	f.otpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_RequestCheckoutOtp_IssuesAndSendsCode(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 1, UnitPriceSnapshot: 1000},
	}, nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Email: "buyer@example.com"}, nil)

	var issued model.OneTimeCode
	f.otpRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		issued = args.Get(1).(model.OneTimeCode)
	}).Return(nil)
	f.sender.On("SendCode", mock.Anything, "buyer@example.com", mock.Anything).Return(nil)

	err := f.uc.RequestCheckoutOtp(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, model.OtpPurposeOrderPlacement, issued.Purpose)
	assert.Len(t, issued.Code, 6)
	assert.Equal(t, testNow.Add(10*time.Minute), issued.ExpiresAt)
	assert.False(t, issued.Used)
	// メール本文に載るコードはDBに保存したものと同じ
	if assert.Len(t, f.sender.SentCodes, 1) {
		assert.Equal(t, issued.Code, f.sender.SentCodes[0])
	}
}

func TestCheckoutUsecase_PlaceOrder_InvalidShipping(t *testing.T) {
	f := newCheckoutFixture()
	in := usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()}
	in.Shipping.Name = ""

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)

	assertErrContains(t, err, "shipping name required")
	f.otpRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_InvalidOtp(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(false, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assertErrContains(t, err, "invalid otp")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// 25.00 + 送料 15.00 + 税 8% (2.00) = 42.00 のシナリオ
func TestCheckoutUsecase_PlaceOrder_Success(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(true, nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 2, UnitPriceSnapshot: 1000},
		{ID: 2, CartID: 10, ProductID: 200, Quantity: 1, UnitPriceSnapshot: 500},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Title: "Sunset Oil", ImageURL: "/img/100.jpg", Price: 1000, Stock: 5, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(200)).Return(model.Product{ID: 200, Title: "Blue Study", ImageURL: "/img/200.jpg", Price: 500, Stock: 1, IsActive: true}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(200), int64(1)).Return(true, nil)
	f.inventory.On("DeactivateIfDepleted", mock.Anything, mock.Anything).Return(nil)

	var createdOrder model.Order
	f.orders.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		createdOrder = args.Get(1).(model.Order)
	}).Return(int64(77), nil)

	var createdItems []model.OrderItem
	f.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.Anything).Run(func(args mock.Arguments) {
		createdItems = args.Get(2).([]model.OrderItem)
	}).Return(nil)

	var appended model.OrderStatusHistory
	f.history.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		appended = args.Get(1).(model.OrderStatusHistory)
	}).Return(nil)

	f.carts.On("UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assert.NoError(t, err)

	// 金額はカート投入時のスナップショット価格で計算する
	assert.Equal(t, int64(2500), createdOrder.Subtotal)
	assert.Equal(t, int64(1500), createdOrder.ShippingFee)
	assert.Equal(t, int64(200), createdOrder.Tax)
	assert.Equal(t, int64(4200), createdOrder.TotalPrice)
	assert.Equal(t, model.OrderStatusPending, createdOrder.Status)
	assert.True(t, strings.HasPrefix(createdOrder.OrderNumber, "GLR-"))
	assert.Equal(t, "山田 太郎", createdOrder.ShipName)

	if assert.Len(t, createdItems, 2) {
		assert.Equal(t, "Sunset Oil", createdItems[0].ProductTitleSnapshot)
		assert.Equal(t, int64(1000), createdItems[0].UnitPriceSnapshot)
		assert.Equal(t, int64(2), createdItems[0].Quantity)
	}

	assert.Equal(t, int64(77), appended.OrderID)
	assert.Equal(t, model.OrderStatusPending, appended.Status)
	assert.Equal(t, "order placed", appended.Note)

	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, int64(4200), out.TotalPrice)
	assert.Len(t, out.Items, 2)

	f.carts.AssertCalled(t, "UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut)
	f.carts.AssertCalled(t, "Clear", mock.Anything, int64(10))
}

// 第1フェーズで在庫不足が見つかったら何も書き込まない
func TestCheckoutUsecase_PlaceOrder_InsufficientStock_AbortsBeforeWrites(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(true, nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 2, UnitPriceSnapshot: 1000},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Title: "Sunset Oil", Price: 1000, Stock: 1, IsActive: true}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assertErrContains(t, err, "insufficient stock: Sunset Oil")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// 検証後に別の購入が割り込んだケース。条件付き減算のfalseで中断する
func TestCheckoutUsecase_PlaceOrder_RacedStock_Aborts(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(true, nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 1, UnitPriceSnapshot: 1000},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Title: "Sunset Oil", Price: 1000, Stock: 1, IsActive: true}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(1)).Return(false, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assertErrContains(t, err, "insufficient stock: Sunset Oil")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// 注文番号の衝突は採番し直して成功するまで（最大3回）再試行する
func TestCheckoutUsecase_PlaceOrder_RetriesOrderNumberOnCollision(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(true, nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 1, UnitPriceSnapshot: 1000},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Title: "Sunset Oil", Price: 1000, Stock: 3, IsActive: true}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(1)).Return(true, nil)
	f.inventory.On("DeactivateIfDepleted", mock.Anything, int64(100)).Return(nil)

	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), gorm.ErrDuplicatedKey).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(88), nil).Once()

	f.orderItems.On("CreateBulk", mock.Anything, int64(88), mock.Anything).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assert.NoError(t, err)
	assert.Equal(t, int64(88), out.ID)
	f.orders.AssertNumberOfCalls(t, "Create", 2)
	// 挿入は毎回SAVEPOINTの中で行う。これがないとPostgresでは
	// unique違反がTx全体をabortし、2回目の挿入が通らない
	assert.Equal(t, 2, f.txRepos.SavepointCalls)
}

func TestCheckoutUsecase_PlaceOrder_NamesVanishedProductByID(t *testing.T) {
	f := newCheckoutFixture()
	f.otpRepo.On("Consume", mock.Anything, int64(1), model.OtpPurposeOrderPlacement, "123456", testNow).Return(true, nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, ProductID: 999, Quantity: 1, UnitPriceSnapshot: 1000},
	}, nil)
	// カートに入れた後に作品が削除されたケース
	f.products.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{Otp: "123456", Shipping: validShipping()})

	assertErrContains(t, err, "insufficient stock: product 999")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

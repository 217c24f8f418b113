package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

// チェックアウトの入力（配送先）。住所帳とは独立に注文へ固定される
type ShippingInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
}

type ShippingValidator interface {
	ValidateShipping(in ShippingInfo) error
}

// 金額まわりの設定値（セント/パーセント）
type PricingConfig struct {
	ShippingFlatFee int64
	TaxRatePercent  int64
}

type CheckoutUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	otp          *OtpUsecase
	validator    ShippingValidator
	pricing      PricingConfig
	clock        Clock
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	otp *OtpUsecase,
	validator ShippingValidator,
	pricing PricingConfig,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		otp:          otp,
		validator:    validator,
		pricing:      pricing,
		clock:        clock,
	}
}

// チェックアウト第1段階: 確認コードの発行。
// 空カートには発行しない。在庫・価格の検証はここではやらない（確定時に再検証する）
func (u *CheckoutUsecase) RequestCheckoutOtp(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	return u.otp.Issue(ctx, userID, model.OtpPurposeOrderPlacement)
}

type PlaceOrderInput struct {
	Otp      string
	Shipping ShippingInfo
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	UserID      int64             `json:"user_id"`
	Status      string            `json:"status"`
	Subtotal    int64             `json:"subtotal"`
	ShippingFee int64             `json:"shipping_fee"`
	Tax         int64             `json:"tax"`
	TotalPrice  int64             `json:"total_price"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// チェックアウト第2段階: コード検証と注文確定。
// コードは成否にかかわらずここで消費される。失敗したらクライアントは
// RequestCheckoutOtpからやり直す
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateShipping(in.Shipping); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//失敗理由は区別せず返す
	ok, err := u.otp.Verify(ctx, userID, model.OtpPurposeOrderPlacement, in.Otp)
	if err != nil {
		return OrderOutput{}, err
	}
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid otp")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ACTIVEカートと明細を取り直す（OTP発行後に変わっていてよい）
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//第1フェーズ: 書き込む前に全明細を検証する。
		//最初の違反で中断（何も減らさない・カートも触らない）
		products := make(map[int64]model.Product, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				//作品が消えていてタイトルが取れないのでIDで名指しする
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock: product %d", ci.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsAvailable() || p.Stock < ci.Quantity {
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock: %s", p.Title))
			}
			products[ci.ProductID] = p
		}

		//金額計算（セントの整数演算）
		var subtotal int64 = 0
		for _, ci := range cartItems {
			subtotal += ci.UnitPriceSnapshot * ci.Quantity
		}
		tax := subtotal * u.pricing.TaxRatePercent / 100
		total := subtotal + u.pricing.ShippingFlatFee + tax

		//第2フェーズ: 在庫の条件付き減算。
		//falseは検証後に割り込まれた同時購入。ロールバックで全部戻る
		for _, ci := range cartItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock: %s", products[ci.ProductID].Title))
			}
			//在庫0になった作品は非公開へ
			if err := r.Inventory().DeactivateIfDepleted(ctx, ci.ProductID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		now := u.clock.Now()

		//注文作成。注文番号の衝突は採番し直して再試行
		order := model.Order{
			UserID:         userID,
			Status:         model.OrderStatusPending,
			Subtotal:       subtotal,
			ShippingFee:    u.pricing.ShippingFlatFee,
			Tax:            tax,
			TotalPrice:     total,
			ShipName:       in.Shipping.Name,
			ShipPhone:      in.Shipping.Phone,
			ShipPostalCode: in.Shipping.PostalCode,
			ShipPrefecture: in.Shipping.Prefecture,
			ShipCity:       in.Shipping.City,
			ShipLine1:      in.Shipping.Line1,
			ShipLine2:      in.Shipping.Line2,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		var orderID int64
		for attempt := 0; ; attempt++ {
			number, err := generateOrderNumber(now)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			order.OrderNumber = number

			//挿入はSAVEPOINTで囲む。unique違反がPostgresのTx全体を
			//abort状態にすると次の試行が通らないため
			err = r.WithinSavepoint(func() error {
				id, err := r.Orders().Create(ctx, order)
				if err != nil {
					return err
				}
				orderID = id
				return nil
			})
			if err == nil {
				break
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 2 {
				continue
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細のスナップショットを一括作成
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			p := products[ci.ProductID]
			orderItems = append(orderItems, model.OrderItem{
				ProductID:            ci.ProductID,
				ProductTitleSnapshot: p.Title,
				UnitPriceSnapshot:    ci.UnitPriceSnapshot,
				ImageURLSnapshot:     p.ImageURL,
				Quantity:             ci.Quantity,
				CreatedAt:            now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//最初のステータス履歴
		if err := r.StatusHistory().Append(ctx, model.OrderStatusHistory{
			OrderID:   orderID,
			Status:    model.OrderStatusPending,
			Note:      "order placed",
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCHECKED_OUTにして明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// GLR-<発行時刻秒>-<英数4桁>
func generateOrderNumber(now time.Time) (string, error) {
	const charset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = charset[int(buf[i])%len(charset)]
	}
	return fmt.Sprintf("GLR-%d-%s", now.Unix(), string(buf)), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Title:     it.ProductTitleSnapshot,
			ImageURL:  it.ImageURLSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}
	return OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		Subtotal:    o.Subtotal,
		ShippingFee: o.ShippingFee,
		Tax:         o.Tax,
		TotalPrice:  o.TotalPrice,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}

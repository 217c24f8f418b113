package usecase

import (
	"context"
	"net/http"

	repo "gallery/internal/repository"
)

type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	ImageURL          string `json:"image_url"`
	Quantity          int64  `json:"quantity"`
	UnitPriceSnapshot int64  `json:"unit_price_snapshot"`
	LineTotal         int64  `json:"line_total"`

	//現時点の販売状態。チェックアウト前の画面表示用
	CurrentPrice int64 `json:"current_price"`
	IsAvailable  bool  `json:"is_available"`
}

type CartOutput struct {
	CartID   int64            `json:"cart_id"`
	Items    []CartItemOutput `json:"items"`
	Subtotal int64            `json:"subtotal"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{CartID: cart.ID, Items: []CartItemOutput{}}
	for _, it := range items {
		line := CartItemOutput{
			ID:                it.ID,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			UnitPriceSnapshot: it.UnitPriceSnapshot,
			LineTotal:         it.UnitPriceSnapshot * it.Quantity,
		}
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == nil {
			line.Title = p.Title
			line.ImageURL = p.ImageURL
			line.CurrentPrice = p.Price
			line.IsAvailable = p.IsAvailable() && p.Stock >= it.Quantity
		}
		out.Subtotal += line.LineTotal
		out.Items = append(out.Items, line)
	}
	return out, nil
}

// 同じ作品は1行にまとめ、最終数量は在庫でクランプする。
// min(既存数量+追加数量, 在庫)
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, productID int64, qty int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if qty < 1 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsAvailable() || p.Stock < qty {
		return NewHTTPError(http.StatusConflict, "product unavailable")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//既存行の数量を見て最終値を決める
	existing := int64(0)
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, it := range items {
		if it.ProductID == productID {
			existing = it.Quantity
			break
		}
	}

	finalQty := existing + qty
	if finalQty > p.Stock {
		finalQty = p.Stock
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, productID, finalQty, p.Price); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}
	if qty < 1 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の明細は存在自体を見せない
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	it, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, it.ProductID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if qty > p.Stock {
		return NewHTTPError(http.StatusBadRequest, "unavailable")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 空カートに対しても成功（冪等）
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

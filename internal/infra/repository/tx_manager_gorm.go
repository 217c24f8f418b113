package repository

import (
	"context"

	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	tx            *gorm.DB
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	statusHistory repo.OrderStatusHistoryRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	inventory     repo.InventoryRepository
	products      repo.ProductRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                     { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository             { return r.orderItems }
func (r *txReposGorm) StatusHistory() repo.OrderStatusHistoryRepository { return r.statusHistory }
func (r *txReposGorm) Carts() repo.CartRepository                       { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository               { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository              { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository                 { return r.products }

// トランザクション内のネストしたTransactionはgormがSAVEPOINTにする。
// fnがunique違反で失敗してもROLLBACK TO SAVEPOINTで外側のTxは生き残り、
// 呼び出し側はそのまま再試行できる（PostgresはBEGIN後の失敗でTx全体が
// abort状態になるため、SAVEPOINTなしでは後続のステートメントが通らない）
func (r *txReposGorm) WithinSavepoint(fn func() error) error {
	return r.tx.Transaction(func(*gorm.DB) error { return fn() })
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			tx:            tx,
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			statusHistory: NewOrderStatusHistoryGormRepository(tx),
			carts:         NewCartGormRepository(tx),
			cartItems:     NewCartGormRepository(tx),
			inventory:     NewInventoryGormRepository(tx),
			products:      NewProductGormRepository(tx),
		}
		return fn(r)
	})
}

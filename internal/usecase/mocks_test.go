package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	stock      repo.StockRepository
	products   repo.ProductRepository
	coupons    repo.CouponRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Stock() repo.StockRepository          { return r.stock }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Coupons() repo.CouponRepository       { return r.coupons }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateEndereco(ctx context.Context, orderID int64, endereco string) error {
	args := m.Called(ctx, orderID, endereco)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateCouponAndTotal(ctx context.Context, orderID int64, couponID int64, valorTotal float64) error {
	args := m.Called(ctx, orderID, couponID, valorTotal)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, status)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.Order, error) {
	args := m.Called(ctx, from, to)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Stats(ctx context.Context, monthStart time.Time, monthEnd time.Time) (repo.OrderStats, error) {
	args := m.Called(ctx, monthStart, monthEnd)
	s, _ := args.Get(0).(repo.OrderStats)
	return s, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type StockRepoMock struct{ mock.Mock }

func (m *StockRepoMock) CurrentQuantity(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StockRepoMock) CreateMovement(ctx context.Context, mv model.StockMovement) (model.StockMovement, error) {
	args := m.Called(ctx, mv)
	out, _ := args.Get(0).(model.StockMovement)
	return out, args.Error(1)
}

func (m *StockRepoMock) ListAll(ctx context.Context) ([]model.StockMovement, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.StockMovement)
	return items, args.Error(1)
}

func (m *StockRepoMock) ListByProduct(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.StockMovement)
	return items, args.Error(1)
}

func (m *StockRepoMock) ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.StockMovement, error) {
	args := m.Called(ctx, from, to)
	items, _ := args.Get(0).([]model.StockMovement)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) SetAtivo(ctx context.Context, id int64, ativo bool) error {
	args := m.Called(ctx, id, ativo)
	return args.Error(0)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) FindByCodigo(ctx context.Context, codigo string) (model.Coupon, error) {
	args := m.Called(ctx, codigo)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Coupon)
	return out, args.Error(1)
}

func (m *CouponRepoMock) Update(ctx context.Context, c model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CouponRepoMock) SetAtivo(ctx context.Context, id int64, ativo bool) error {
	args := m.Called(ctx, id, ativo)
	return args.Error(0)
}

func (m *CouponRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CouponRepoMock) ConsumeSingleUse(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CouponRepoMock) List(ctx context.Context, f repo.CouponListFilter) ([]model.Coupon, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Coupon)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CouponRepoMock) ListActive(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Coupon)
	return items, args.Error(1)
}

func (m *CouponRepoMock) ListExpired(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Coupon)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CouponRepoMock) Stats(ctx context.Context) (repo.CouponStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(repo.CouponStats)
	return s, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	out, _ := args.Get(0).(model.CartItem)
	return out, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartItemRepoMock) TotalQuantityByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	out, _ := args.Get(0).(model.User)
	return out, args.Error(1)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) FindByID(ctx context.Context, id int64) (model.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) FindByTracking(ctx context.Context, codigo string) (model.Delivery, error) {
	args := m.Called(ctx, codigo)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Create(ctx context.Context, d model.Delivery) (model.Delivery, error) {
	args := m.Called(ctx, d)
	out, _ := args.Get(0).(model.Delivery)
	return out, args.Error(1)
}

func (m *DeliveryRepoMock) Update(ctx context.Context, d model.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DeliveryRepoMock) List(ctx context.Context, f repo.DeliveryListFilter) ([]model.Delivery, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Delivery)
	return items, args.Get(1).(int64), args.Error(2)
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

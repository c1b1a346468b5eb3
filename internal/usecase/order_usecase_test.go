package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
	"loja/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderFixture() (*TxManagerMock, *UserRepoMock, *OrderRepoMock, *OrderItemRepoMock, *StockRepoMock, *ProductRepoMock, *CouponRepoMock, *CartItemRepoMock) {
	tx := new(TxManagerMock)
	users := new(UserRepoMock)
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	stock := new(StockRepoMock)
	products := new(ProductRepoMock)
	coupons := new(CouponRepoMock)
	cartItems := new(CartItemRepoMock)

	tx.Repos = &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		cartItems:  cartItems,
		stock:      stock,
		products:   products,
		coupons:    coupons,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	return tx, users, orders, orderItems, stock, products, coupons, cartItems
}

func validItem(productID int64, qty int64) usecase.OrderItemInput {
	return usecase.OrderItemInput{IDProduto: productID, Quantidade: qty}
}

// =====================
// Create
// =====================

func TestOrderUsecase_Create_MissingFields(t *testing.T) {
	tx, users, _, _, _, _, _, _ := newOrderFixture()
	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       0,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(1, 1)},
	})
	assertErrContains(t, err, "obrigatórios")
}

func TestOrderUsecase_Create_UserNotFound(t *testing.T) {
	tx, users, _, _, _, _, _, _ := newOrderFixture()

	users.On("FindByID", mock.Anything, int64(42)).Return(model.User{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       42,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(1, 1)},
	})
	assertErrContains(t, err, "usuário não encontrado")
}

// 台帳の合計が足りなければ注文は一切書き込まれない
func TestOrderUsecase_Create_InsufficientStock(t *testing.T) {
	tx, users, orders, _, stock, products, _, _ := newOrderFixture()

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Ativo: true}, nil)
	stock.On("CurrentQuantity", mock.Anything, int64(5)).Return(int64(47), nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 48)},
	})

	se, ok := usecase.AsInsufficientStock(err)
	if assert.True(t, ok, "want InsufficientStockError, got %v", err) {
		assert.Equal(t, "Caneca", se.Produto)
		assert.Equal(t, int64(47), se.EstoqueDisponivel)
		assert.Equal(t, int64(48), se.QuantidadeSolicitada)
	}

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	stock.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_InactiveProduct(t *testing.T) {
	tx, users, orders, _, _, products, _, _ := newOrderFixture()

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Ativo: false}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 1)},
	})
	assertErrContains(t, err, "não está ativo")

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_ProductNotFound(t *testing.T) {
	tx, users, _, _, _, products, _, _ := newOrderFixture()

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(99, 1)},
	})
	assertErrContains(t, err, "produto 99 não encontrado")
}

// 成功時は台帳にちょうど-qtyの1行が載り、明細とカート掃除も行われる
func TestOrderUsecase_Create_Success_AppendsExactDecrement(t *testing.T) {
	tx, users, orders, orderItems, stock, products, _, cartItems := newOrderFixture()

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Preco: 25, Ativo: true}, nil)
	stock.On("CurrentQuantity", mock.Anything, int64(5)).Return(int64(10), nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 && o.Status == model.OrderStatusPendente && o.ValorTotal == 75.0
	})).Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusPendente, ValorTotal: 75}, nil)

	orderItems.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 5 &&
			items[0].NomeProduto == "Caneca" &&
			items[0].PrecoUnitario == 25.0 &&
			items[0].Quantidade == 3
	})).Return(nil)

	stock.On("CreateMovement", mock.Anything, model.StockMovement{
		ProductID:    5,
		Quantidade:   -3,
		Movimentacao: "Venda - Pedido #7",
	}).Return(model.StockMovement{ID: 100, ProductID: 5, Quantidade: -3}, nil)

	cartItems.On("DeleteByUserAndProduct", mock.Anything, int64(1), int64(5)).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		ValorTotal:      75,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 3)},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Pedido.ID)
	assert.Equal(t, 1, len(out.Itens))

	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
	stock.AssertExpectations(t)
	cartItems.AssertExpectations(t)
}

// 基盤エラーは500に変換しても原因を失わない
func TestOrderUsecase_Create_StoreFaultKeepsCause(t *testing.T) {
	tx, users, orders, _, stock, products, _, _ := newOrderFixture()

	driverErr := errors.New("pq: deadlock detected")

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Preco: 25, Ativo: true}, nil)
	stock.On("CurrentQuantity", mock.Anything, int64(5)).Return(int64(10), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(model.Order{}, driverErr)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		ValorTotal:      75,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 3)},
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.True(t, errors.Is(err, driverErr))
}

// クーポンありの注文は割引後の合計で保存され、uso únicoは消費される
func TestOrderUsecase_Create_WithCoupon_AppliesDiscount(t *testing.T) {
	tx, users, orders, orderItems, stock, products, coupons, cartItems := newOrderFixture()

	cupomID := int64(3)
	validade := time.Now().Add(24 * time.Hour)

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	coupons.On("FindByID", mock.Anything, cupomID).Return(model.Coupon{
		ID:                 cupomID,
		Codigo:             "SAVE10",
		DescontoPercentual: 10,
		DataValidade:       validade,
		UsoUnico:           true,
		Ativo:              true,
	}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Preco: 100, Ativo: true}, nil)
	stock.On("CurrentQuantity", mock.Anything, int64(5)).Return(int64(10), nil)

	// 100.0 × (1 − 10/100) = 90.0
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.ValorTotal == 90.0 && o.CouponID != nil && *o.CouponID == cupomID
	})).Return(model.Order{ID: 8, UserID: 1, CouponID: &cupomID, ValorTotal: 90}, nil)

	orderItems.On("CreateBulk", mock.Anything, int64(8), mock.Anything).Return(nil)
	stock.On("CreateMovement", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)
	cartItems.On("DeleteByUserAndProduct", mock.Anything, int64(1), int64(5)).Return(nil)
	coupons.On("ConsumeSingleUse", mock.Anything, cupomID).Return(true, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		IDCupom:         &cupomID,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 1)},
	})
	assert.NoError(t, err)
	assert.Equal(t, 90.0, out.Pedido.ValorTotal)

	coupons.AssertExpectations(t)
	orders.AssertExpectations(t)
}

// 消費に先を越されたら注文ごと失敗する
func TestOrderUsecase_Create_CouponAlreadyConsumed(t *testing.T) {
	tx, users, orders, orderItems, stock, products, coupons, cartItems := newOrderFixture()

	cupomID := int64(3)

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	coupons.On("FindByID", mock.Anything, cupomID).Return(model.Coupon{
		ID:                 cupomID,
		DescontoPercentual: 10,
		DataValidade:       time.Now().Add(time.Hour),
		UsoUnico:           true,
		Ativo:              true,
	}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5, Nome: "Caneca", Ativo: true}, nil)
	stock.On("CurrentQuantity", mock.Anything, int64(5)).Return(int64(10), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(model.Order{ID: 9}, nil)
	orderItems.On("CreateBulk", mock.Anything, int64(9), mock.Anything).Return(nil)
	stock.On("CreateMovement", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)
	cartItems.On("DeleteByUserAndProduct", mock.Anything, int64(1), int64(5)).Return(nil)

	coupons.On("ConsumeSingleUse", mock.Anything, cupomID).Return(false, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		IDCupom:         &cupomID,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 1)},
	})
	assertErrContains(t, err, "cupom já foi utilizado")
}

func TestOrderUsecase_Create_ExpiredCoupon(t *testing.T) {
	tx, users, orders, _, _, _, coupons, _ := newOrderFixture()

	cupomID := int64(3)

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	coupons.On("FindByID", mock.Anything, cupomID).Return(model.Coupon{
		ID:                 cupomID,
		DescontoPercentual: 10,
		DataValidade:       time.Now().Add(-time.Hour),
		Ativo:              true,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		IDUsuario:       1,
		IDCupom:         &cupomID,
		ValorTotal:      100,
		EnderecoEntrega: "Rua A, 1",
		Itens:           []usecase.OrderItemInput{validItem(5, 1)},
	})
	assertErrContains(t, err, "cupom expirado")

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// UpdateStatus
// =====================

func TestOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	tx, users, _, _, _, _, _, _ := newOrderFixture()
	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.UpdateStatus(context.Background(), 1, "Qualquer")
	assertErrContains(t, err, "status")
}

func TestOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	orders.On("FindByIDForUpdate", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusConfirmado,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.UpdateStatus(context.Background(), 1, "Confirmado")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmado, out.Status)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_TerminalRejected(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	orders.On("FindByIDForUpdate", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusEntregue,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.UpdateStatus(context.Background(), 1, "Pendente")
	assertErrContains(t, err, "não é possível alterar")

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// Canceladoへの遷移は明細の数量をプラス行で台帳に戻す
func TestOrderUsecase_UpdateStatus_Cancel_Restocks(t *testing.T) {
	tx, users, orders, orderItems, stock, products, _, _ := newOrderFixture()

	orderID := int64(7)

	orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPendente,
	}, nil)

	orderItems.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{
		{OrderID: orderID, ProductID: 5, Quantidade: 3},
		{OrderID: orderID, ProductID: 6, Quantidade: 1},
	}, nil)

	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(6)).Return(model.Product{ID: 6}, nil)

	stock.On("CreateMovement", mock.Anything, model.StockMovement{
		ProductID:    5,
		Quantidade:   3,
		Movimentacao: "Cancelamento - Pedido #7",
	}).Return(model.StockMovement{}, nil)
	stock.On("CreateMovement", mock.Anything, model.StockMovement{
		ProductID:    6,
		Quantidade:   1,
		Movimentacao: "Cancelamento - Pedido #7",
	}).Return(model.StockMovement{}, nil)

	orders.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusCancelado).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.UpdateStatus(context.Background(), orderID, "Cancelado")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelado, out.Status)

	stock.AssertExpectations(t)
	orders.AssertExpectations(t)
}

// =====================
// Cancel
// =====================

func TestOrderUsecase_Cancel_Success_WithMotivo(t *testing.T) {
	tx, users, orders, orderItems, stock, products, _, _ := newOrderFixture()

	orderID := int64(7)

	orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPendente,
	}, nil)
	orderItems.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{
		{OrderID: orderID, ProductID: 5, Quantidade: 2},
	}, nil)
	products.On("FindByIDForUpdate", mock.Anything, int64(5)).Return(model.Product{ID: 5}, nil)
	stock.On("CreateMovement", mock.Anything, model.StockMovement{
		ProductID:    5,
		Quantidade:   2,
		Movimentacao: "Cancelamento - Pedido #7",
	}).Return(model.StockMovement{}, nil)
	orders.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusCancelado).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.Cancel(context.Background(), orderID, "mudou de ideia")
	assert.NoError(t, err)
	assert.Equal(t, "mudou de ideia", out.Motivo)
	assert.Equal(t, model.OrderStatusCancelado, out.Pedido.Status)

	stock.AssertExpectations(t)
}

func TestOrderUsecase_Cancel_DefaultMotivo(t *testing.T) {
	tx, users, orders, orderItems, _, _, _, _ := newOrderFixture()

	orderID := int64(7)

	orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPendente,
	}, nil)
	orderItems.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{}, nil)
	orders.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusCancelado).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.Cancel(context.Background(), orderID, "")
	assert.NoError(t, err)
	assert.Equal(t, "Cancelado pelo usuário", out.Motivo)
}

func TestOrderUsecase_Cancel_AlreadyTerminal(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	orders.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		Status: model.OrderStatusCancelado,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.Cancel(context.Background(), 7, "")
	assertErrContains(t, err, "não é possível cancelar")

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// ApplyCoupon
// =====================

func TestOrderUsecase_ApplyCoupon_AlreadyApplied(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	existing := int64(2)
	orders.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(model.Order{
		ID:       7,
		CouponID: &existing,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.ApplyCoupon(context.Background(), 7, 3)
	assertErrContains(t, err, "já possui um cupom")
}

func TestOrderUsecase_ApplyCoupon_Success(t *testing.T) {
	tx, users, orders, _, _, _, coupons, _ := newOrderFixture()

	cupomID := int64(3)

	orders.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(model.Order{
		ID:         7,
		ValorTotal: 100,
		Status:     model.OrderStatusPendente,
	}, nil)
	coupons.On("FindByID", mock.Anything, cupomID).Return(model.Coupon{
		ID:                 cupomID,
		DescontoPercentual: 10,
		DataValidade:       time.Now().Add(time.Hour),
		UsoUnico:           true,
		Ativo:              true,
	}, nil)
	coupons.On("ConsumeSingleUse", mock.Anything, cupomID).Return(true, nil)
	orders.On("UpdateCouponAndTotal", mock.Anything, int64(7), cupomID, 90.0).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.ApplyCoupon(context.Background(), 7, cupomID)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, out.Desconto)
	assert.Equal(t, 100.0, out.ValorOriginal)
	assert.Equal(t, 90.0, out.ValorComDesconto)

	orders.AssertExpectations(t)
	coupons.AssertExpectations(t)
}

// =====================
// UpdateAddress
// =====================

func TestOrderUsecase_UpdateAddress_BlockedAfterShipment(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	orders.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		Status: model.OrderStatusEnviado,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.UpdateAddress(context.Background(), 7, "Rua B, 2")
	assertErrContains(t, err, "não é possível alterar endereço")
}

// =====================
// Reads
// =====================

func TestOrderUsecase_ListByStatus_InvalidStatus(t *testing.T) {
	tx, users, _, _, _, _, _, _ := newOrderFixture()
	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.ListByStatus(context.Background(), "Perdido")
	assertErrContains(t, err, "status deve ser")
}

func TestOrderUsecase_ListByPeriod_ComputesStats(t *testing.T) {
	tx, users, orders, _, _, _, _, _ := newOrderFixture()

	from, _ := time.Parse("2006-01-02", "2026-01-01")
	to, _ := time.Parse("2006-01-02", "2026-01-31")

	orders.On("ListByPeriod", mock.Anything, from, to).Return([]model.Order{
		{ID: 1, Status: model.OrderStatusEntregue, ValorTotal: 50},
		{ID: 2, Status: model.OrderStatusPendente, ValorTotal: 30},
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.ListByPeriod(context.Background(), "2026-01-01", "2026-01-31")
	assert.NoError(t, err)
	assert.Equal(t, 2, out.Estatisticas.TotalPedidos)
	assert.Equal(t, 1, out.Estatisticas.PedidosConcluidos)
	assert.Equal(t, 80.0, out.Estatisticas.TotalVendas)
}

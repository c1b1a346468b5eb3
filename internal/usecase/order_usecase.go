package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewOrderUsecase(tx repo.TransactionManager, users repo.UserRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, users: users}
}

type OrderItemInput struct {
	IDProduto  int64
	Quantidade int64
}

type CreateOrderInput struct {
	IDUsuario       int64
	IDCupom         *int64
	ValorTotal      float64
	EnderecoEntrega string
	Itens           []OrderItemInput
}

type OrderOutput struct {
	Pedido model.Order       `json:"pedido"`
	Itens  []model.OrderItem `json:"itens"`
}

// Create は注文確定。
// 検証をすべて終えてから書き込みに入る（all-or-nothing）。
// 在庫チェック→台帳書き込みの競合は、同一Tx内で商品行をロックして閉じる
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if in.IDUsuario <= 0 || strings.TrimSpace(in.EnderecoEntrega) == "" || len(in.Itens) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "usuário, valor total, endereço e itens são obrigatórios")
	}
	if in.ValorTotal <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "valor total deve ser maior que zero")
	}
	for _, it := range in.Itens {
		if it.IDProduto <= 0 || it.Quantidade < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "item inválido: produto e quantidade >= 1 são obrigatórios")
		}
	}

	//ユーザー存在チェック
	if _, err := u.users.FindByID(ctx, in.IDUsuario); err != nil {
		if err == repo.ErrNotFound {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "usuário não encontrado")
		}
		return OrderOutput{}, NewInternalError("db error", err)
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//クーポン検証（割引の適用は注文作成時に必ず行う）
		var cupom *model.Coupon
		if in.IDCupom != nil {
			c, err := r.Coupons().FindByID(ctx, *in.IDCupom)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "cupom não encontrado")
			}
			if err != nil {
				return NewInternalError("db error", err)
			}
			if !c.Ativo {
				return NewHTTPError(http.StatusBadRequest, "cupom não está ativo")
			}
			if time.Now().After(c.DataValidade) {
				return NewHTTPError(http.StatusBadRequest, "cupom expirado")
			}
			cupom = &c
		}

		//全アイテムを先に検証する。商品行ロックで残高チェックを直列化
		products := make(map[int64]model.Product, len(in.Itens))
		for _, it := range in.Itens {
			p, err := r.Products().FindByIDForUpdate(ctx, it.IDProduto)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("produto %d não encontrado", it.IDProduto))
			}
			if err != nil {
				return NewInternalError("db error", err)
			}
			if !p.Ativo {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("produto %s não está ativo", p.Nome))
			}

			disponivel, err := r.Stock().CurrentQuantity(ctx, it.IDProduto)
			if err != nil {
				return NewInternalError("db error", err)
			}
			if disponivel < it.Quantidade {
				return &InsufficientStockError{
					Produto:              p.Nome,
					EstoqueDisponivel:    disponivel,
					QuantidadeSolicitada: it.Quantidade,
				}
			}

			products[it.IDProduto] = p
		}

		total := in.ValorTotal
		if cupom != nil {
			total = round2(total * (1 - cupom.DescontoPercentual/100))
		}

		//検証が全部通ってから書き込み
		created, err := r.Orders().Create(ctx, model.Order{
			UserID:          in.IDUsuario,
			CouponID:        in.IDCupom,
			Status:          model.OrderStatusPendente,
			ValorTotal:      total,
			EnderecoEntrega: strings.TrimSpace(in.EnderecoEntrega),
			DataPedido:      time.Now(),
		})
		if err != nil {
			return NewInternalError("db error", err)
		}

		//注文明細スナップショット（キャンセル時の在庫戻しの根拠になる）
		orderItems := make([]model.OrderItem, 0, len(in.Itens))
		for _, it := range in.Itens {
			p := products[it.IDProduto]
			orderItems = append(orderItems, model.OrderItem{
				ProductID:     it.IDProduto,
				NomeProduto:   p.Nome,
				PrecoUnitario: p.Preco,
				Quantidade:    it.Quantidade,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, created.ID, orderItems); err != nil {
			return NewInternalError("db error", err)
		}

		//台帳にマイナス行を追記して、カートの該当行を消す
		for _, it := range in.Itens {
			_, err := r.Stock().CreateMovement(ctx, model.StockMovement{
				ProductID:    it.IDProduto,
				Quantidade:   -it.Quantidade,
				Movimentacao: fmt.Sprintf("Venda - Pedido #%d", created.ID),
			})
			if err != nil {
				return NewInternalError("db error", err)
			}

			if err := r.CartItems().DeleteByUserAndProduct(ctx, in.IDUsuario, it.IDProduto); err != nil {
				return NewInternalError("db error", err)
			}
		}

		//uso únicoのクーポンは条件付き更新で消費。
		//同時適用で先を越されたら注文ごとロールバックする
		if cupom != nil && cupom.UsoUnico {
			ok, err := r.Coupons().ConsumeSingleUse(ctx, cupom.ID)
			if err != nil {
				return NewInternalError("db error", err)
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "cupom já foi utilizado")
			}
		}

		for i := range orderItems {
			orderItems[i].OrderID = created.ID
		}
		out = OrderOutput{Pedido: created, Itens: orderItems}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus は固定enumの範囲でステータスを変更する。
// 終端（Entregue/Cancelado）からの遷移は拒否。Canceladoへの遷移は在庫を戻す
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if !model.ValidOrderStatus(status) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest,
			"status é obrigatório e deve ser: Pendente, Confirmado, Preparando, Enviado, Entregue, Cancelado")
	}
	newStatus := model.OrderStatus(status)

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}

		// 同じなら何もしない（200）
		if o.Status == newStatus {
			out = o
			return nil
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("não é possível alterar um pedido com status %q", o.Status))
		}

		if newStatus == model.OrderStatusCancelado {
			if err := restockOrder(ctx, r, o.ID); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return NewInternalError("db error", err)
		}

		o.Status = newStatus
		out = o
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

type CancelOrderOutput struct {
	Motivo string      `json:"motivo"`
	Pedido model.Order `json:"pedido"`
}

func (u *OrderUsecase) Cancel(ctx context.Context, orderID int64, motivo string) (CancelOrderOutput, error) {
	if orderID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		motivo = "Cancelado pelo usuário"
	}

	var out CancelOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}

		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("não é possível cancelar um pedido com status %q", o.Status))
		}

		if err := restockOrder(ctx, r, o.ID); err != nil {
			return err
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelado); err != nil {
			return NewInternalError("db error", err)
		}

		o.Status = model.OrderStatusCancelado
		out = CancelOrderOutput{Motivo: motivo, Pedido: o}
		return nil
	})

	if err != nil {
		return CancelOrderOutput{}, err
	}
	return out, nil
}

// 在庫戻し。注文明細のスナップショットからプラス行を追記する
func restockOrder(ctx context.Context, r repo.TxRepos, orderID int64) error {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return NewInternalError("db error", err)
	}

	for _, it := range items {
		//同一商品の他の注文と直列化する
		if _, err := r.Products().FindByIDForUpdate(ctx, it.ProductID); err != nil && err != repo.ErrNotFound {
			return NewInternalError("db error", err)
		}

		_, err := r.Stock().CreateMovement(ctx, model.StockMovement{
			ProductID:    it.ProductID,
			Quantidade:   it.Quantidade,
			Movimentacao: fmt.Sprintf("Cancelamento - Pedido #%d", orderID),
		})
		if err != nil {
			return NewInternalError("db error", err)
		}
	}
	return nil
}

type ApplyCouponOutput struct {
	Desconto         float64     `json:"desconto"`
	ValorOriginal    float64     `json:"valorOriginal"`
	ValorComDesconto float64     `json:"valorComDesconto"`
	Pedido           model.Order `json:"pedido"`
}

// ApplyCoupon は既存注文への後付け適用。
// 割引の計算規則は注文作成時と同じ（total × (1 − desconto/100)）
func (u *OrderUsecase) ApplyCoupon(ctx context.Context, orderID int64, cupomID int64) (ApplyCouponOutput, error) {
	if orderID <= 0 {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if cupomID <= 0 {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "id do cupom é obrigatório")
	}

	var out ApplyCouponOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}

		if o.CouponID != nil {
			return NewHTTPError(http.StatusBadRequest, "pedido já possui um cupom aplicado")
		}

		c, err := r.Coupons().FindByID(ctx, cupomID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cupom não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}
		if !c.Ativo {
			return NewHTTPError(http.StatusBadRequest, "cupom não está ativo")
		}
		if time.Now().After(c.DataValidade) {
			return NewHTTPError(http.StatusBadRequest, "cupom expirado")
		}

		if c.UsoUnico {
			ok, err := r.Coupons().ConsumeSingleUse(ctx, c.ID)
			if err != nil {
				return NewInternalError("db error", err)
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "cupom já foi utilizado")
			}
		}

		desconto := round2(o.ValorTotal * c.DescontoPercentual / 100)
		novoValor := round2(o.ValorTotal - desconto)

		if err := r.Orders().UpdateCouponAndTotal(ctx, orderID, c.ID, novoValor); err != nil {
			return NewInternalError("db error", err)
		}

		valorOriginal := o.ValorTotal
		o.CouponID = &c.ID
		o.ValorTotal = novoValor

		out = ApplyCouponOutput{
			Desconto:         desconto,
			ValorOriginal:    valorOriginal,
			ValorComDesconto: novoValor,
			Pedido:           o,
		}
		return nil
	})

	if err != nil {
		return ApplyCouponOutput{}, err
	}
	return out, nil
}

// UpdateAddress は発送前だけ配送先を変更できる
func (u *OrderUsecase) UpdateAddress(ctx context.Context, orderID int64, endereco string) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	endereco = strings.TrimSpace(endereco)
	if endereco == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "endereço de entrega é obrigatório")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}

		if o.Status == model.OrderStatusEnviado || o.Status == model.OrderStatusEntregue {
			return NewHTTPError(http.StatusBadRequest, "não é possível alterar endereço após o pedido ser enviado")
		}

		if err := r.Orders().UpdateEndereco(ctx, orderID, endereco); err != nil {
			return NewInternalError("db error", err)
		}

		o.EnderecoEntrega = endereco
		out = o
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

func (u *OrderUsecase) List(ctx context.Context) ([]model.Order, error) {
	var outs []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return NewInternalError("db error", err)
		}
		outs = orders
		return nil
	})
	if err != nil {
		return []model.Order{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetByID(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewInternalError("db error", err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewInternalError("db error", err)
		}

		out = OrderOutput{Pedido: o, Itens: items}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type UserOrdersOutput struct {
	Usuario      model.User    `json:"usuario"`
	Pedidos      []model.Order `json:"pedidos"`
	TotalPedidos int           `json:"totalPedidos"`
}

func (u *OrderUsecase) ListByUser(ctx context.Context, userID int64) (UserOrdersOutput, error) {
	if userID <= 0 {
		return UserOrdersOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserOrdersOutput{}, NewHTTPError(http.StatusNotFound, "usuário não encontrado")
	}
	if err != nil {
		return UserOrdersOutput{}, NewInternalError("db error", err)
	}

	var orders []model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err = r.Orders().ListByUser(ctx, userID)
		if err != nil {
			return NewInternalError("db error", err)
		}
		return nil
	})
	if err != nil {
		return UserOrdersOutput{}, err
	}

	return UserOrdersOutput{
		Usuario:      user,
		Pedidos:      orders,
		TotalPedidos: len(orders),
	}, nil
}

type OrdersByStatusOutput struct {
	Status     string        `json:"status"`
	Quantidade int           `json:"quantidade"`
	Pedidos    []model.Order `json:"pedidos"`
}

func (u *OrderUsecase) ListByStatus(ctx context.Context, status string) (OrdersByStatusOutput, error) {
	if !model.ValidOrderStatus(status) {
		return OrdersByStatusOutput{}, NewHTTPError(http.StatusBadRequest,
			"status deve ser: Pendente, Confirmado, Preparando, Enviado, Entregue, Cancelado")
	}

	var orders []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().ListByStatus(ctx, model.OrderStatus(status))
		if err != nil {
			return NewInternalError("db error", err)
		}
		return nil
	})
	if err != nil {
		return OrdersByStatusOutput{}, err
	}

	return OrdersByStatusOutput{
		Status:     status,
		Quantidade: len(orders),
		Pedidos:    orders,
	}, nil
}

type PeriodStats struct {
	TotalPedidos      int     `json:"totalPedidos"`
	PedidosConcluidos int     `json:"pedidosConcluidos"`
	TotalVendas       float64 `json:"totalVendas"`
}

type OrdersByPeriodOutput struct {
	DataInicio   string        `json:"dataInicio"`
	DataFim      string        `json:"dataFim"`
	Estatisticas PeriodStats   `json:"estatisticas"`
	Pedidos      []model.Order `json:"pedidos"`
}

func (u *OrderUsecase) ListByPeriod(ctx context.Context, dataInicio string, dataFim string) (OrdersByPeriodOutput, error) {
	if strings.TrimSpace(dataInicio) == "" || strings.TrimSpace(dataFim) == "" {
		return OrdersByPeriodOutput{}, NewHTTPError(http.StatusBadRequest, "data início e data fim são obrigatórias")
	}

	from, err := parseDate(dataInicio)
	if err != nil {
		return OrdersByPeriodOutput{}, NewHTTPError(http.StatusBadRequest, "data início inválida")
	}
	to, err := parseDate(dataFim)
	if err != nil {
		return OrdersByPeriodOutput{}, NewHTTPError(http.StatusBadRequest, "data fim inválida")
	}

	var orders []model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().ListByPeriod(ctx, from, to)
		if err != nil {
			return NewInternalError("db error", err)
		}
		return nil
	})
	if err != nil {
		return OrdersByPeriodOutput{}, err
	}

	stats := PeriodStats{TotalPedidos: len(orders)}
	for _, o := range orders {
		stats.TotalVendas += o.ValorTotal
		if o.Status == model.OrderStatusEntregue {
			stats.PedidosConcluidos++
		}
	}

	return OrdersByPeriodOutput{
		DataInicio:   dataInicio,
		DataFim:      dataFim,
		Estatisticas: stats,
		Pedidos:      orders,
	}, nil
}

func (u *OrderUsecase) Stats(ctx context.Context) (repo.OrderStats, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var stats repo.OrderStats
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		stats, err = r.Orders().Stats(ctx, monthStart, monthEnd)
		if err != nil {
			return NewInternalError("db error", err)
		}
		return nil
	})
	if err != nil {
		return repo.OrderStats{}, err
	}
	return stats, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

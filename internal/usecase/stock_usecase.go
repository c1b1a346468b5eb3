package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

// 在庫僅少の閾値
const lowStockLimit = 10

type StockUsecase struct {
	tx       repo.TransactionManager
	stock    repo.StockRepository
	products repo.ProductRepository
}

func NewStockUsecase(tx repo.TransactionManager, stock repo.StockRepository, products repo.ProductRepository) *StockUsecase {
	return &StockUsecase{tx: tx, stock: stock, products: products}
}

type MovementInput struct {
	IDProduto    int64
	Quantidade   int64
	Movimentacao string
}

// AddEntry は入庫（プラスの行を追記）
func (u *StockUsecase) AddEntry(ctx context.Context, in MovementInput) (model.StockMovement, error) {
	if in.IDProduto <= 0 || in.Quantidade == 0 || strings.TrimSpace(in.Movimentacao) == "" {
		return model.StockMovement{}, NewHTTPError(http.StatusBadRequest, "id do produto, quantidade e movimentação são obrigatórios")
	}
	if in.Quantidade <= 0 {
		return model.StockMovement{}, NewHTTPError(http.StatusBadRequest, "a quantidade deve ser maior que zero")
	}

	if _, err := u.products.FindByID(ctx, in.IDProduto); err != nil {
		if err == repo.ErrNotFound {
			return model.StockMovement{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
		}
		return model.StockMovement{}, NewInternalError("db error", err)
	}

	m, err := u.stock.CreateMovement(ctx, model.StockMovement{
		ProductID:    in.IDProduto,
		Quantidade:   in.Quantidade,
		Movimentacao: strings.TrimSpace(in.Movimentacao),
	})
	if err != nil {
		return model.StockMovement{}, NewInternalError("db error", err)
	}
	return m, nil
}

type ExitOutput struct {
	Movimentacao model.StockMovement `json:"movimentacao"`
	EstoqueAtual int64               `json:"estoqueAtual"`
}

type insufficientExitError struct {
	EstoqueAtual         int64
	QuantidadeSolicitada int64
}

func (e *insufficientExitError) Error() string {
	return fmt.Sprintf("quantidade insuficiente em estoque: atual %d, solicitado %d",
		e.EstoqueAtual, e.QuantidadeSolicitada)
}

// AsInsufficientExit は出庫時の残高不足を取り出す
func AsInsufficientExit(err error) (int64, int64, bool) {
	if e, ok := err.(*insufficientExitError); ok {
		return e.EstoqueAtual, e.QuantidadeSolicitada, true
	}
	return 0, 0, false
}

// RegisterExit は出庫。残高チェックと追記を同一Tx・商品行ロックで行う
func (u *StockUsecase) RegisterExit(ctx context.Context, in MovementInput) (ExitOutput, error) {
	if in.IDProduto <= 0 || in.Quantidade == 0 || strings.TrimSpace(in.Movimentacao) == "" {
		return ExitOutput{}, NewHTTPError(http.StatusBadRequest, "id do produto, quantidade e movimentação são obrigatórios")
	}
	if in.Quantidade <= 0 {
		return ExitOutput{}, NewHTTPError(http.StatusBadRequest, "a quantidade deve ser maior que zero")
	}

	var out ExitOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByIDForUpdate(ctx, in.IDProduto); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "produto não encontrado")
			}
			return NewInternalError("db error", err)
		}

		atual, err := r.Stock().CurrentQuantity(ctx, in.IDProduto)
		if err != nil {
			return NewInternalError("db error", err)
		}
		if atual < in.Quantidade {
			return &insufficientExitError{EstoqueAtual: atual, QuantidadeSolicitada: in.Quantidade}
		}

		m, err := r.Stock().CreateMovement(ctx, model.StockMovement{
			ProductID:    in.IDProduto,
			Quantidade:   -in.Quantidade,
			Movimentacao: strings.TrimSpace(in.Movimentacao),
		})
		if err != nil {
			return NewInternalError("db error", err)
		}

		out = ExitOutput{Movimentacao: m, EstoqueAtual: atual - in.Quantidade}
		return nil
	})

	if err != nil {
		return ExitOutput{}, err
	}
	return out, nil
}

type AdjustInput struct {
	IDProduto      int64
	NovaQuantidade int64
	Motivo         string
}

type AdjustOutput struct {
	Ajuste             model.StockMovement `json:"ajuste"`
	QuantidadeAnterior int64               `json:"quantidadeAnterior"`
	NovaQuantidade     int64               `json:"novaQuantidade"`
	Diferenca          int64               `json:"diferenca"`
}

// AdjustTo は棚卸し補正。delta = 目標 − 現在で、0なら何も書かずにエラー
func (u *StockUsecase) AdjustTo(ctx context.Context, in AdjustInput) (AdjustOutput, error) {
	if in.IDProduto <= 0 || strings.TrimSpace(in.Motivo) == "" {
		return AdjustOutput{}, NewHTTPError(http.StatusBadRequest, "id do produto, nova quantidade e motivo são obrigatórios")
	}
	if in.NovaQuantidade < 0 {
		return AdjustOutput{}, NewHTTPError(http.StatusBadRequest, "a quantidade não pode ser negativa")
	}

	var out AdjustOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByIDForUpdate(ctx, in.IDProduto); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "produto não encontrado")
			}
			return NewInternalError("db error", err)
		}

		atual, err := r.Stock().CurrentQuantity(ctx, in.IDProduto)
		if err != nil {
			return NewInternalError("db error", err)
		}

		diferenca := in.NovaQuantidade - atual
		if diferenca == 0 {
			return NewHTTPError(http.StatusBadRequest, "a quantidade informada é igual à quantidade atual")
		}

		m, err := r.Stock().CreateMovement(ctx, model.StockMovement{
			ProductID:    in.IDProduto,
			Quantidade:   diferenca,
			Movimentacao: fmt.Sprintf("Ajuste: %s (%+d)", strings.TrimSpace(in.Motivo), diferenca),
		})
		if err != nil {
			return NewInternalError("db error", err)
		}

		out = AdjustOutput{
			Ajuste:             m,
			QuantidadeAnterior: atual,
			NovaQuantidade:     in.NovaQuantidade,
			Diferenca:          diferenca,
		}
		return nil
	})

	if err != nil {
		return AdjustOutput{}, err
	}
	return out, nil
}

type QuantityOutput struct {
	IDProduto  int64 `json:"idProduto"`
	Quantidade int64 `json:"quantidade"`
}

func (u *StockUsecase) CurrentQuantity(ctx context.Context, productID int64) (QuantityOutput, error) {
	if productID <= 0 {
		return QuantityOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return QuantityOutput{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
		}
		return QuantityOutput{}, NewInternalError("db error", err)
	}

	qty, err := u.stock.CurrentQuantity(ctx, productID)
	if err != nil {
		return QuantityOutput{}, NewInternalError("db error", err)
	}

	return QuantityOutput{IDProduto: productID, Quantidade: qty}, nil
}

type ConsultProductOutput struct {
	IDProduto int64  `json:"idProduto"`
	Nome      string `json:"nome"`
}

type ConsultOutput struct {
	Produto           ConsultProductOutput `json:"produto"`
	QuantidadeEstoque int64                `json:"quantidadeEstoque"`
}

// Consult は商品情報付きで現在庫を返す
func (u *StockUsecase) Consult(ctx context.Context, productID int64) (ConsultOutput, error) {
	if productID <= 0 {
		return ConsultOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ConsultOutput{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
	}
	if err != nil {
		return ConsultOutput{}, NewInternalError("db error", err)
	}

	qty, err := u.stock.CurrentQuantity(ctx, productID)
	if err != nil {
		return ConsultOutput{}, NewInternalError("db error", err)
	}

	return ConsultOutput{
		Produto:           ConsultProductOutput{IDProduto: p.ID, Nome: p.Nome},
		QuantidadeEstoque: qty,
	}, nil
}

func (u *StockUsecase) ListHistory(ctx context.Context) ([]model.StockMovement, error) {
	items, err := u.stock.ListAll(ctx)
	if err != nil {
		return []model.StockMovement{}, NewInternalError("db error", err)
	}
	return items, nil
}

type ProductMovementsOutput struct {
	Produto         model.Product         `json:"produto"`
	QuantidadeAtual int64                 `json:"quantidadeAtual"`
	Movimentacoes   []model.StockMovement `json:"movimentacoes"`
}

func (u *StockUsecase) ListByProduct(ctx context.Context, productID int64) (ProductMovementsOutput, error) {
	if productID <= 0 {
		return ProductMovementsOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductMovementsOutput{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
	}
	if err != nil {
		return ProductMovementsOutput{}, NewInternalError("db error", err)
	}

	items, err := u.stock.ListByProduct(ctx, productID)
	if err != nil {
		return ProductMovementsOutput{}, NewInternalError("db error", err)
	}

	qty, err := u.stock.CurrentQuantity(ctx, productID)
	if err != nil {
		return ProductMovementsOutput{}, NewInternalError("db error", err)
	}

	return ProductMovementsOutput{Produto: p, QuantidadeAtual: qty, Movimentacoes: items}, nil
}

func (u *StockUsecase) ListByPeriod(ctx context.Context, dataInicio string, dataFim string) ([]model.StockMovement, error) {
	if strings.TrimSpace(dataInicio) == "" || strings.TrimSpace(dataFim) == "" {
		return []model.StockMovement{}, NewHTTPError(http.StatusBadRequest, "data início e data fim são obrigatórias")
	}

	from, err := parseDate(dataInicio)
	if err != nil {
		return []model.StockMovement{}, NewHTTPError(http.StatusBadRequest, "data início inválida")
	}
	to, err := parseDate(dataFim)
	if err != nil {
		return []model.StockMovement{}, NewHTTPError(http.StatusBadRequest, "data fim inválida")
	}
	items, err := u.stock.ListByPeriod(ctx, from, to)
	if err != nil {
		return []model.StockMovement{}, NewInternalError("db error", err)
	}
	return items, nil
}

type ProductStockOutput struct {
	Produto           model.Product `json:"produto"`
	QuantidadeEstoque int64         `json:"quantidadeEstoque"`
}

// ListAllStocks は有効な商品すべての現在庫
func (u *StockUsecase) ListAllStocks(ctx context.Context) ([]ProductStockOutput, error) {
	products, err := u.products.ListActive(ctx)
	if err != nil {
		return []ProductStockOutput{}, NewInternalError("db error", err)
	}

	outs := make([]ProductStockOutput, 0, len(products))
	for _, p := range products {
		qty, err := u.stock.CurrentQuantity(ctx, p.ID)
		if err != nil {
			return []ProductStockOutput{}, NewInternalError("db error", err)
		}
		outs = append(outs, ProductStockOutput{Produto: p, QuantidadeEstoque: qty})
	}
	return outs, nil
}

// ListLowStock は 0 < 現在庫 <= 閾値 の商品
func (u *StockUsecase) ListLowStock(ctx context.Context) ([]ProductStockOutput, error) {
	all, err := u.ListAllStocks(ctx)
	if err != nil {
		return []ProductStockOutput{}, err
	}

	low := make([]ProductStockOutput, 0)
	for _, s := range all {
		if s.QuantidadeEstoque > 0 && s.QuantidadeEstoque <= lowStockLimit {
			low = append(low, s)
		}
	}
	return low, nil
}

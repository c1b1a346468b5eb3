package usecase

import (
	"context"
	"net/http"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

type CartUsecase struct {
	items    repo.CartItemRepository
	products repo.ProductRepository
	users    repo.UserRepository
}

func NewCartUsecase(items repo.CartItemRepository, products repo.ProductRepository, users repo.UserRepository) *CartUsecase {
	return &CartUsecase{items: items, products: products, users: users}
}

type AddCartItemInput struct {
	IDUsuario  int64
	IDProduto  int64
	Quantidade int64
}

type AddCartItemOutput struct {
	Item model.CartItem
	// 既存行への加算だったか（レスポンスコードが変わる）
	Merged bool
}

func (u *CartUsecase) AddItem(ctx context.Context, in AddCartItemInput) (AddCartItemOutput, error) {
	if in.IDUsuario <= 0 || in.IDProduto <= 0 {
		return AddCartItemOutput{}, NewHTTPError(http.StatusBadRequest, "id do usuário e id do produto são obrigatórios")
	}
	if in.Quantidade <= 0 {
		in.Quantidade = 1
	}

	if _, err := u.users.FindByID(ctx, in.IDUsuario); err != nil {
		if err == repo.ErrNotFound {
			return AddCartItemOutput{}, NewHTTPError(http.StatusNotFound, "usuário não encontrado")
		}
		return AddCartItemOutput{}, NewInternalError("db error", err)
	}

	p, err := u.products.FindByID(ctx, in.IDProduto)
	if err == repo.ErrNotFound {
		return AddCartItemOutput{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
	}
	if err != nil {
		return AddCartItemOutput{}, NewInternalError("db error", err)
	}
	if !p.Ativo {
		return AddCartItemOutput{}, NewHTTPError(http.StatusBadRequest, "produto não está ativo")
	}

	existing, err := u.items.FindByUserAndProduct(ctx, in.IDUsuario, in.IDProduto)
	if err == nil {
		newQty := existing.Quantidade + in.Quantidade
		if err := u.items.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
			return AddCartItemOutput{}, NewInternalError("db error", err)
		}
		existing.Quantidade = newQty
		return AddCartItemOutput{Item: existing, Merged: true}, nil
	}
	if err != repo.ErrNotFound {
		return AddCartItemOutput{}, NewInternalError("db error", err)
	}

	item, err := u.items.Create(ctx, model.CartItem{
		UserID:     in.IDUsuario,
		ProductID:  in.IDProduto,
		Quantidade: in.Quantidade,
	})
	if err != nil {
		return AddCartItemOutput{}, NewInternalError("db error", err)
	}
	return AddCartItemOutput{Item: item}, nil
}

type CartLineOutput struct {
	Item     model.CartItem `json:"item"`
	Produto  model.Product  `json:"produto"`
	Subtotal float64        `json:"subtotal"`
}

type CartOutput struct {
	IDUsuario  int64            `json:"idUsuario"`
	Itens      []CartLineOutput `json:"itens"`
	TotalItens int64            `json:"totalItens"`
	ValorTotal float64          `json:"valorTotal"`
}

// ListItems は明細に商品を展開する。
// promocaoがあればそちらの単価で小計を出す
func (u *CartUsecase) ListItems(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "usuário não encontrado")
		}
		return CartOutput{}, NewInternalError("db error", err)
	}

	items, err := u.items.ListByUser(ctx, userID)
	if err != nil {
		return CartOutput{}, NewInternalError("db error", err)
	}

	out := CartOutput{IDUsuario: userID, Itens: []CartLineOutput{}}
	for _, item := range items {
		p, err := u.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == repo.ErrNotFound {
				continue
			}
			return CartOutput{}, NewInternalError("db error", err)
		}

		preco := p.Preco
		if p.Promocao != nil {
			preco = *p.Promocao
		}
		subtotal := round2(preco * float64(item.Quantidade))

		out.Itens = append(out.Itens, CartLineOutput{Item: item, Produto: p, Subtotal: subtotal})
		out.TotalItens += item.Quantidade
		out.ValorTotal = round2(out.ValorTotal + subtotal)
	}

	return out, nil
}

func (u *CartUsecase) UpdateQuantity(ctx context.Context, itemID int64, quantidade int64) (model.CartItem, error) {
	if itemID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if quantidade <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "quantidade deve ser maior que zero")
	}

	item, err := u.items.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "item do carrinho não encontrado")
	}
	if err != nil {
		return model.CartItem{}, NewInternalError("db error", err)
	}

	if err := u.items.UpdateQuantity(ctx, itemID, quantidade); err != nil {
		return model.CartItem{}, NewInternalError("db error", err)
	}
	item.Quantidade = quantidade
	return item, nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, itemID int64) error {
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	err := u.items.DeleteByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "item do carrinho não encontrado")
	}
	if err != nil {
		return NewInternalError("db error", err)
	}
	return nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "usuário não encontrado")
		}
		return NewInternalError("db error", err)
	}

	if err := u.items.DeleteByUser(ctx, userID); err != nil {
		return NewInternalError("db error", err)
	}
	return nil
}

type AvailabilityLineOutput struct {
	IDCarrinho           int64  `json:"idCarrinho"`
	Produto              string `json:"produto"`
	Disponivel           bool   `json:"disponivel"`
	QuantidadeSolicitada int64  `json:"quantidadeSolicitada"`
}

type AvailabilityOutput struct {
	TodosDisponiveis bool                     `json:"todosDisponiveis"`
	Detalhes         []AvailabilityLineOutput `json:"detalhes"`
}

// CheckAvailability は各明細の商品がまだ買えるか（ativo）を返す
func (u *CartUsecase) CheckAvailability(ctx context.Context, userID int64) (AvailabilityOutput, error) {
	if userID <= 0 {
		return AvailabilityOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	items, err := u.items.ListByUser(ctx, userID)
	if err != nil {
		return AvailabilityOutput{}, NewInternalError("db error", err)
	}

	out := AvailabilityOutput{TodosDisponiveis: true, Detalhes: []AvailabilityLineOutput{}}
	for _, item := range items {
		line := AvailabilityLineOutput{
			IDCarrinho:           item.ID,
			QuantidadeSolicitada: item.Quantidade,
		}

		p, err := u.products.FindByID(ctx, item.ProductID)
		switch {
		case err == repo.ErrNotFound:
			// 商品が消えた行は買えない扱い
			line.Disponivel = false
		case err != nil:
			return AvailabilityOutput{}, NewInternalError("db error", err)
		default:
			line.Produto = p.Nome
			line.Disponivel = p.Ativo
		}

		if !line.Disponivel {
			out.TodosDisponiveis = false
		}
		out.Detalhes = append(out.Detalhes, line)
	}

	return out, nil
}

type MoveToOrderOutput struct {
	ItensProcessados int `json:"itensProcessados"`
}

// MoveToOrder はカートを空にして処理件数を返す
func (u *CartUsecase) MoveToOrder(ctx context.Context, userID int64) (MoveToOrderOutput, error) {
	if userID <= 0 {
		return MoveToOrderOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	items, err := u.items.ListByUser(ctx, userID)
	if err != nil {
		return MoveToOrderOutput{}, NewInternalError("db error", err)
	}
	if len(items) == 0 {
		return MoveToOrderOutput{}, NewHTTPError(http.StatusBadRequest, "carrinho está vazio")
	}

	if err := u.items.DeleteByUser(ctx, userID); err != nil {
		return MoveToOrderOutput{}, NewInternalError("db error", err)
	}

	return MoveToOrderOutput{ItensProcessados: len(items)}, nil
}

type CartTotalOutput struct {
	IDUsuario  int64 `json:"idUsuario"`
	TotalItens int64 `json:"totalItens"`
}

func (u *CartUsecase) TotalQuantity(ctx context.Context, userID int64) (CartTotalOutput, error) {
	if userID <= 0 {
		return CartTotalOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	total, err := u.items.TotalQuantityByUser(ctx, userID)
	if err != nil {
		return CartTotalOutput{}, NewInternalError("db error", err)
	}
	return CartTotalOutput{IDUsuario: userID, TotalItens: total}, nil
}

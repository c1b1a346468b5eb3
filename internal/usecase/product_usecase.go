package usecase

import (
	"context"
	"net/http"
	"strings"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

type CreateProductInput struct {
	Nome      string
	Descricao string
	Preco     float64
	Promocao  *float64
}

func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "nome do produto é obrigatório")
	}
	if in.Preco <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "preço deve ser maior que zero")
	}
	if in.Promocao != nil && (*in.Promocao <= 0 || *in.Promocao >= in.Preco) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "preço promocional deve ser maior que zero e menor que o preço")
	}

	p, err := u.products.Create(ctx, model.Product{
		Nome:      in.Nome,
		Descricao: in.Descricao,
		Preco:     in.Preco,
		Promocao:  in.Promocao,
		Ativo:     true,
	})
	if err != nil {
		return model.Product{}, NewInternalError("db error", err)
	}
	return p, nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
	}
	if err != nil {
		return model.Product{}, NewInternalError("db error", err)
	}
	return p, nil
}

func (u *ProductUsecase) ListActive(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.ListActive(ctx)
	if err != nil {
		return []model.Product{}, NewInternalError("db error", err)
	}
	return items, nil
}

func (u *ProductUsecase) SetAtivo(ctx context.Context, id int64, ativo bool) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	if err := u.products.SetAtivo(ctx, id, ativo); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "produto não encontrado")
		}
		return model.Product{}, NewInternalError("db error", err)
	}

	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, NewInternalError("db error", err)
	}
	return p, nil
}

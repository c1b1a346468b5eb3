package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

type CouponUsecase struct {
	coupons repo.CouponRepository
}

func NewCouponUsecase(coupons repo.CouponRepository) *CouponUsecase {
	return &CouponUsecase{coupons: coupons}
}

type CreateCouponInput struct {
	Codigo             string
	DescontoPercentual float64
	DataValidade       time.Time
	UsoUnico           *bool
}

func (u *CouponUsecase) Create(ctx context.Context, in CreateCouponInput) (model.Coupon, error) {
	codigo := strings.ToUpper(strings.TrimSpace(in.Codigo))
	if codigo == "" || in.DescontoPercentual == 0 || in.DataValidade.IsZero() {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "código, desconto percentual e data de validade são obrigatórios")
	}
	if in.DescontoPercentual <= 0 || in.DescontoPercentual > 100 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "desconto percentual deve estar entre 0 e 100")
	}
	if !in.DataValidade.After(time.Now()) {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "data de validade deve ser futura")
	}

	usoUnico := true
	if in.UsoUnico != nil {
		usoUnico = *in.UsoUnico
	}

	c, err := u.coupons.Create(ctx, model.Coupon{
		Codigo:             codigo,
		DescontoPercentual: in.DescontoPercentual,
		DataValidade:       in.DataValidade,
		UsoUnico:           usoUnico,
		Ativo:              true,
	})
	if err == repo.ErrDuplicateCodigo {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "código do cupom já existe")
	}
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}
	return c, nil
}

type UpdateCouponInput struct {
	Codigo             *string
	DescontoPercentual *float64
	DataValidade       *time.Time
	UsoUnico           *bool
	Ativo              *bool
}

func (u *CouponUsecase) Update(ctx context.Context, id int64, in UpdateCouponInput) (model.Coupon, error) {
	if id <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	c, err := u.coupons.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}

	if in.DescontoPercentual != nil {
		if *in.DescontoPercentual <= 0 || *in.DescontoPercentual > 100 {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "desconto percentual deve estar entre 0 e 100")
		}
		c.DescontoPercentual = *in.DescontoPercentual
	}
	if in.DataValidade != nil {
		if !in.DataValidade.After(time.Now()) {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "data de validade deve ser futura")
		}
		c.DataValidade = *in.DataValidade
	}
	if in.Codigo != nil {
		c.Codigo = strings.ToUpper(strings.TrimSpace(*in.Codigo))
		if c.Codigo == "" {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "código inválido")
		}
	}
	if in.UsoUnico != nil {
		c.UsoUnico = *in.UsoUnico
	}
	if in.Ativo != nil {
		c.Ativo = *in.Ativo
	}

	err = u.coupons.Update(ctx, c)
	if err == repo.ErrDuplicateCodigo {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "código do cupom já existe")
	}
	if err == repo.ErrNotFound {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}
	return c, nil
}

func (u *CouponUsecase) SetAtivo(ctx context.Context, id int64, ativo bool) (model.Coupon, error) {
	if id <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	if err := u.coupons.SetAtivo(ctx, id, ativo); err != nil {
		if err == repo.ErrNotFound {
			return model.Coupon{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
		}
		return model.Coupon{}, NewInternalError("db error", err)
	}

	c, err := u.coupons.FindByID(ctx, id)
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}
	return c, nil
}

func (u *CouponUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	err := u.coupons.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return NewInternalError("db error", err)
	}
	return nil
}

func (u *CouponUsecase) GetByID(ctx context.Context, id int64) (model.Coupon, error) {
	if id <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	c, err := u.coupons.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}
	return c, nil
}

func (u *CouponUsecase) GetByCode(ctx context.Context, codigo string) (model.Coupon, error) {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if codigo == "" {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "código do cupom é obrigatório")
	}

	c, err := u.coupons.FindByCodigo(ctx, codigo)
	if err == repo.ErrNotFound {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return model.Coupon{}, NewInternalError("db error", err)
	}
	return c, nil
}

// ValidationOutput は正常系の「使えない」を表す。
// 基盤エラー以外はエラーにせず理由を返す
type ValidationOutput struct {
	Valido bool          `json:"valido"`
	Cupom  *model.Coupon `json:"cupom,omitempty"`
	Motivo string        `json:"error,omitempty"`
}

// ValidateByCode はコードを正規化（大文字化）して照合する。
// 未知のコードだけ404で、inativo/expiradoは200で valido=false
func (u *CouponUsecase) ValidateByCode(ctx context.Context, codigo string) (ValidationOutput, error) {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if codigo == "" {
		return ValidationOutput{}, NewHTTPError(http.StatusBadRequest, "código do cupom é obrigatório")
	}

	c, err := u.coupons.FindByCodigo(ctx, codigo)
	if err == repo.ErrNotFound {
		return ValidationOutput{}, NewHTTPError(http.StatusNotFound, "cupom não encontrado")
	}
	if err != nil {
		return ValidationOutput{}, NewInternalError("db error", err)
	}

	if !c.Ativo {
		return ValidationOutput{Valido: false, Motivo: "cupom inativo"}, nil
	}
	if time.Now().After(c.DataValidade) {
		return ValidationOutput{Valido: false, Motivo: "cupom expirado"}, nil
	}

	return ValidationOutput{Valido: true, Cupom: &c}, nil
}

type CouponListOutput struct {
	Cupons []model.Coupon `json:"cupons"`
	Total  int64          `json:"totalCupons"`
	Pagina int            `json:"paginaAtual"`
}

func (u *CouponUsecase) List(ctx context.Context, page int, limit int, ativo *bool) (CouponListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	items, total, err := u.coupons.List(ctx, repo.CouponListFilter{Page: page, Limit: limit, Ativo: ativo})
	if err != nil {
		return CouponListOutput{}, NewInternalError("db error", err)
	}

	return CouponListOutput{Cupons: items, Total: total, Pagina: page}, nil
}

func (u *CouponUsecase) ListActive(ctx context.Context) ([]model.Coupon, error) {
	items, err := u.coupons.ListActive(ctx)
	if err != nil {
		return []model.Coupon{}, NewInternalError("db error", err)
	}
	return items, nil
}

func (u *CouponUsecase) ListExpired(ctx context.Context, page int, limit int) (CouponListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	items, total, err := u.coupons.ListExpired(ctx, page, limit)
	if err != nil {
		return CouponListOutput{}, NewInternalError("db error", err)
	}
	return CouponListOutput{Cupons: items, Total: total, Pagina: page}, nil
}

type CouponStatsOutput struct {
	TotalCupons     int64 `json:"totalCupons"`
	CuponsAtivos    int64 `json:"cuponsAtivos"`
	CuponsExpirados int64 `json:"cuponsExpirados"`
	CuponsInativos  int64 `json:"cuponsInativos"`
}

func (u *CouponUsecase) Stats(ctx context.Context) (CouponStatsOutput, error) {
	s, err := u.coupons.Stats(ctx)
	if err != nil {
		return CouponStatsOutput{}, NewInternalError("db error", err)
	}

	return CouponStatsOutput{
		TotalCupons:     s.Total,
		CuponsAtivos:    s.Ativos,
		CuponsExpirados: s.Expirados,
		CuponsInativos:  s.Total - s.Ativos - s.Expirados,
	}, nil
}

package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"
)

type DeliveryUsecase struct {
	deliveries repo.DeliveryRepository
	orders     repo.OrderRepository
}

func NewDeliveryUsecase(deliveries repo.DeliveryRepository, orders repo.OrderRepository) *DeliveryUsecase {
	return &DeliveryUsecase{deliveries: deliveries, orders: orders}
}

type CreateDeliveryInput struct {
	IDPedido           int64
	Transportadora     string
	CodigoRastreamento string
	DataEnvio          *time.Time
}

func (u *DeliveryUsecase) Create(ctx context.Context, in CreateDeliveryInput) (model.Delivery, error) {
	in.Transportadora = strings.TrimSpace(in.Transportadora)
	in.CodigoRastreamento = strings.TrimSpace(in.CodigoRastreamento)
	if in.IDPedido <= 0 || in.Transportadora == "" || in.CodigoRastreamento == "" {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "id do pedido, transportadora e código de rastreamento são obrigatórios")
	}

	if _, err := u.orders.FindByID(ctx, in.IDPedido); err != nil {
		if err == repo.ErrNotFound {
			return model.Delivery{}, NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		return model.Delivery{}, NewInternalError("db error", err)
	}

	dataEnvio := time.Now()
	if in.DataEnvio != nil {
		dataEnvio = *in.DataEnvio
	}

	d, err := u.deliveries.Create(ctx, model.Delivery{
		OrderID:            in.IDPedido,
		Transportadora:     in.Transportadora,
		CodigoRastreamento: in.CodigoRastreamento,
		StatusEntrega:      model.DeliveryStatusEmTransito,
		DataEnvio:          dataEnvio,
	})
	if err == repo.ErrDuplicateDelivery {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "já existe uma entrega para este pedido")
	}
	if err != nil {
		return model.Delivery{}, NewInternalError("db error", err)
	}
	return d, nil
}

// UpdateStatus はEntregueに入った時だけdataEntregaを刻む。
// 既に刻まれていれば上書きしない
func (u *DeliveryUsecase) UpdateStatus(ctx context.Context, id int64, status string) (model.Delivery, error) {
	if id <= 0 {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if !model.ValidDeliveryStatus(status) {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "status de entrega inválido")
	}

	d, err := u.deliveries.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Delivery{}, NewHTTPError(http.StatusNotFound, "entrega não encontrada")
	}
	if err != nil {
		return model.Delivery{}, NewInternalError("db error", err)
	}

	d.StatusEntrega = model.DeliveryStatus(status)
	if d.StatusEntrega == model.DeliveryStatusEntregue && d.DataEntrega == nil {
		now := time.Now()
		d.DataEntrega = &now
	}

	if err := u.deliveries.Update(ctx, d); err != nil {
		if err == repo.ErrNotFound {
			return model.Delivery{}, NewHTTPError(http.StatusNotFound, "entrega não encontrada")
		}
		return model.Delivery{}, NewInternalError("db error", err)
	}
	return d, nil
}

func (u *DeliveryUsecase) GetByID(ctx context.Context, id int64) (model.Delivery, error) {
	if id <= 0 {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	d, err := u.deliveries.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Delivery{}, NewHTTPError(http.StatusNotFound, "entrega não encontrada")
	}
	if err != nil {
		return model.Delivery{}, NewInternalError("db error", err)
	}
	return d, nil
}

func (u *DeliveryUsecase) GetByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	if orderID <= 0 {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	d, err := u.deliveries.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Delivery{}, NewHTTPError(http.StatusNotFound, "entrega não encontrada para este pedido")
	}
	if err != nil {
		return model.Delivery{}, NewInternalError("db error", err)
	}
	return d, nil
}

func (u *DeliveryUsecase) GetByTracking(ctx context.Context, codigo string) (model.Delivery, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return model.Delivery{}, NewHTTPError(http.StatusBadRequest, "código de rastreamento é obrigatório")
	}

	d, err := u.deliveries.FindByTracking(ctx, codigo)
	if err == repo.ErrNotFound {
		return model.Delivery{}, NewHTTPError(http.StatusNotFound, "entrega não encontrada")
	}
	if err != nil {
		return model.Delivery{}, NewInternalError("db error", err)
	}
	return d, nil
}

type DeliveryListOutput struct {
	Entregas []model.Delivery `json:"entregas"`
	Total    int64            `json:"totalEntregas"`
	Pagina   int              `json:"paginaAtual"`
}

func (u *DeliveryUsecase) List(ctx context.Context, page int, limit int, status string) (DeliveryListOutput, error) {
	if status != "" && !model.ValidDeliveryStatus(status) {
		return DeliveryListOutput{}, NewHTTPError(http.StatusBadRequest, "status de entrega inválido")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	items, total, err := u.deliveries.List(ctx, repo.DeliveryListFilter{Page: page, Limit: limit, Status: status})
	if err != nil {
		return DeliveryListOutput{}, NewInternalError("db error", err)
	}
	return DeliveryListOutput{Entregas: items, Total: total, Pagina: page}, nil
}

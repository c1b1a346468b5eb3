package repository

import (
	"context"
	"errors"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateEndereco(ctx context.Context, orderID int64, endereco string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("endereco_entrega", endereco)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateCouponAndTotal(ctx context.Context, orderID int64, couponID int64, valorTotal float64) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"id_cupom":    couponID,
			"valor_total": valorTotal,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Order("data_pedido desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", userID).
		Order("data_pedido desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("data_pedido asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("data_pedido BETWEEN ? AND ?", from, to).
		Order("data_pedido desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Stats(ctx context.Context, monthStart time.Time, monthEnd time.Time) (repo.OrderStats, error) {
	var s repo.OrderStats

	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&s.TotalPedidos).Error; err != nil {
		return repo.OrderStats{}, err
	}

	var totalVendas *float64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(valor_total)").
		Where("status = ?", model.OrderStatusEntregue).
		Scan(&totalVendas).Error; err != nil {
		return repo.OrderStats{}, err
	}
	if totalVendas != nil {
		s.TotalVendas = *totalVendas
	}

	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("data_pedido BETWEEN ? AND ?", monthStart, monthEnd).
		Count(&s.PedidosMes).Error; err != nil {
		return repo.OrderStats{}, err
	}

	var vendasMes *float64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(valor_total)").
		Where("data_pedido BETWEEN ? AND ? AND status = ?", monthStart, monthEnd, model.OrderStatusEntregue).
		Scan(&vendasMes).Error; err != nil {
		return repo.OrderStats{}, err
	}
	if vendasMes != nil {
		s.VendasMes = *vendasMes
	}

	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) as quantidade").
		Group("status").
		Scan(&s.PorStatus).Error; err != nil {
		return repo.OrderStats{}, err
	}

	return s, nil
}

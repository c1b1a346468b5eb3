package repository

import (
	"context"
	"errors"

	"loja/internal/domain/model"
	repo "loja/internal/repository"

	"gorm.io/gorm"
)

type DeliveryGormRepository struct {
	db *gorm.DB
}

func NewDeliveryGormRepository(db *gorm.DB) *DeliveryGormRepository {
	return &DeliveryGormRepository{db: db}
}

func (r *DeliveryGormRepository) FindByID(ctx context.Context, id int64) (model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Delivery{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Where("id_pedido = ?", orderID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Delivery{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) FindByTracking(ctx context.Context, codigo string) (model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Where("codigo_rastreamento = ?", codigo).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Delivery{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) Create(ctx context.Context, d model.Delivery) (model.Delivery, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		// id_pedidoのunique indexが1注文1配送を保証する
		if isUniqueViolation(err) {
			return model.Delivery{}, repo.ErrDuplicateDelivery
		}
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) Update(ctx context.Context, d model.Delivery) error {
	res := r.db.WithContext(ctx).Model(&model.Delivery{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"status_entrega": d.StatusEntrega,
			"data_entrega":   d.DataEntrega,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryGormRepository) List(ctx context.Context, f repo.DeliveryListFilter) ([]model.Delivery, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Delivery{})
	if f.Status != "" {
		q = q.Where("status_entrega = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Delivery{}, 0, err
	}

	var items []model.Delivery
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("data_envio desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Delivery{}, 0, err
	}

	return items, total, nil
}

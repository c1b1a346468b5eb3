package repository

import (
	"context"
	"time"

	"loja/internal/domain/model"

	"gorm.io/gorm"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// 現在庫＝deltaの合計。行が無ければ0
func (r *StockGormRepository) CurrentQuantity(ctx context.Context, productID int64) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select("SUM(quantidade)").
		Where("id_produto = ?", productID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *StockGormRepository) CreateMovement(ctx context.Context, m model.StockMovement) (model.StockMovement, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.StockMovement{}, err
	}
	return m, nil
}

func (r *StockGormRepository) ListAll(ctx context.Context) ([]model.StockMovement, error) {
	var items []model.StockMovement
	err := r.db.WithContext(ctx).
		Order("data_movimentacao desc").
		Find(&items).Error
	if err != nil {
		return []model.StockMovement{}, err
	}
	return items, nil
}

func (r *StockGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	var items []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("id_produto = ?", productID).
		Order("data_movimentacao desc").
		Find(&items).Error
	if err != nil {
		return []model.StockMovement{}, err
	}
	return items, nil
}

func (r *StockGormRepository) ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.StockMovement, error) {
	var items []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("data_movimentacao BETWEEN ? AND ?", from, to).
		Order("data_movimentacao desc").
		Find(&items).Error
	if err != nil {
		return []model.StockMovement{}, err
	}
	return items, nil
}

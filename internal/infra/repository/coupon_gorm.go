package repository

import (
	"context"
	"errors"
	"time"

	"loja/internal/domain/model"
	repo "loja/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

func (r *CouponGormRepository) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) FindByCodigo(ctx context.Context, codigo string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Coupon{}, repo.ErrDuplicateCodigo
		}
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) Update(ctx context.Context, c model.Coupon) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"codigo":              c.Codigo,
			"desconto_percentual": c.DescontoPercentual,
			"data_validade":       c.DataValidade,
			"uso_unico":           c.UsoUnico,
			"ativo":               c.Ativo,
		})

	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repo.ErrDuplicateCodigo
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) SetAtivo(ctx context.Context, id int64, ativo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ?", id).
		Update("ativo", ativo)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付き更新で uso único を消費。
// ativo=trueの行だけfalseにできる。0行なら消費済み
func (r *CouponGormRepository) ConsumeSingleUse(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND ativo = ? AND uso_unico = ?", id, true, true).
		Update("ativo", false)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CouponGormRepository) List(ctx context.Context, f repo.CouponListFilter) ([]model.Coupon, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Coupon{})
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	var items []model.Coupon
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	return items, total, nil
}

func (r *CouponGormRepository) ListActive(ctx context.Context) ([]model.Coupon, error) {
	var items []model.Coupon
	err := r.db.WithContext(ctx).
		Where("ativo = ? AND data_validade > ?", true, time.Now()).
		Order("data_validade asc").
		Find(&items).Error
	if err != nil {
		return []model.Coupon{}, err
	}
	return items, nil
}

func (r *CouponGormRepository) ListExpired(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("data_validade < ?", time.Now())

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	var items []model.Coupon
	offset := (page - 1) * limit
	if err := q.Order("data_validade desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	return items, total, nil
}

func (r *CouponGormRepository) Stats(ctx context.Context) (repo.CouponStats, error) {
	var s repo.CouponStats

	if err := r.db.WithContext(ctx).Model(&model.Coupon{}).Count(&s.Total).Error; err != nil {
		return repo.CouponStats{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("ativo = ?", true).Count(&s.Ativos).Error; err != nil {
		return repo.CouponStats{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("data_validade < ?", time.Now()).Count(&s.Expirados).Error; err != nil {
		return repo.CouponStats{}, err
	}

	return s, nil
}

// Postgresのunique violation（23505）か
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

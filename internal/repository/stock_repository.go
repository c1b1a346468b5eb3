package repository

import (
	"context"
	"time"

	"loja/internal/domain/model"
)

// 在庫台帳。append-onlyで、現在庫はdeltaの合計。
// 残高の妥当性チェックは呼び出し側（usecase）の責務
type StockRepository interface {
	// 合計。行が無ければ0
	CurrentQuantity(ctx context.Context, productID int64) (int64, error)

	// 1行追記。deltaは正負どちらも可
	CreateMovement(ctx context.Context, m model.StockMovement) (model.StockMovement, error)

	ListAll(ctx context.Context) ([]model.StockMovement, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.StockMovement, error)
	ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.StockMovement, error)
}

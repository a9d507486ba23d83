package repository

import (
	"context"

	"github.com/theunseenchapter/constructai-sub000/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// MaterialRateRepository defines operations for current material rates
type MaterialRateRepository interface {
	Repository[models.MaterialRate, models.MaterialRateFilter]
	ByCode(ctx context.Context, code string) (*models.MaterialRate, error)
	// ByCodeForUpdate locks the row until the surrounding transaction ends
	ByCodeForUpdate(ctx context.Context, code string) (*models.MaterialRate, error)
	ListAll(ctx context.Context) ([]*models.MaterialRate, error)
	Update(ctx context.Context, rate *models.MaterialRate) error
}

// MaterialPriceHistoryRepository defines operations for material price history
type MaterialPriceHistoryRepository interface {
	Repository[models.MaterialPriceHistory, models.MaterialPriceHistoryFilter]
	// ListLatest returns up to limit most recent entries in chronological order
	ListLatest(ctx context.Context, code string, limit int) ([]*models.MaterialPriceHistory, error)
	ListLatestByCodes(ctx context.Context, codes []string, limit int) (map[string][]*models.MaterialPriceHistory, error)
	TrimToLatest(ctx context.Context, code string, keep int) error
}

// BOQEstimateRepository defines operations for persisted estimates
type BOQEstimateRepository interface {
	Repository[models.BOQEstimate, models.BOQEstimateFilter]
	ByUUID(ctx context.Context, uuid string) (*models.BOQEstimate, error)
}

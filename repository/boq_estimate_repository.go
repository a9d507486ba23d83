package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/theunseenchapter/constructai-sub000/models"
	"gorm.io/gorm"
)

// BOQEstimateRepositoryImpl implements BOQEstimateRepository interface.
type BOQEstimateRepositoryImpl struct {
	*BaseRepository[models.BOQEstimate, models.BOQEstimateFilter]
}

func NewBOQEstimateRepository(db *gorm.DB) BOQEstimateRepository {
	return &BOQEstimateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BOQEstimate, models.BOQEstimateFilter](db),
	}
}

// ByUUID retrieves an estimate by its public id, returning nil when absent.
func (r *BOQEstimateRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.BOQEstimate, error) {
	parsed, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.BOQEstimateFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *BOQEstimateRepositoryImpl) applyFilter(query *gorm.DB, filter models.BOQEstimateFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

func (r *BOQEstimateRepositoryImpl) ByFilter(ctx context.Context, filter models.BOQEstimateFilter, orderBy string, limit, offset int) ([]*models.BOQEstimate, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BOQEstimate{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.BOQEstimate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BOQEstimateRepositoryImpl) Count(ctx context.Context, filter models.BOQEstimateFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.BOQEstimate{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BOQEstimateRepositoryImpl) Exists(ctx context.Context, filter models.BOQEstimateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

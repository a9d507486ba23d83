package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/theunseenchapter/constructai-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialRateRepositoryImpl implements MaterialRateRepository interface.
type MaterialRateRepositoryImpl struct {
	*BaseRepository[models.MaterialRate, models.MaterialRateFilter]
}

// NewMaterialRateRepository creates a new material rate repository.
func NewMaterialRateRepository(db *gorm.DB) MaterialRateRepository {
	return &MaterialRateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MaterialRate, models.MaterialRateFilter](db),
	}
}

// ByCode retrieves a rate by its material code, returning nil when absent.
func (r *MaterialRateRepositoryImpl) ByCode(ctx context.Context, code string) (*models.MaterialRate, error) {
	db := r.getDB(ctx)
	var row models.MaterialRate
	if err := db.Where("code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find material rate %s: %w", code, err)
	}
	return &row, nil
}

func (r *MaterialRateRepositoryImpl) ByCodeForUpdate(ctx context.Context, code string) (*models.MaterialRate, error) {
	db := r.getDB(ctx)
	var row models.MaterialRate
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock material rate %s: %w", code, err)
	}
	return &row, nil
}

// ListAll returns every rate ordered by code.
func (r *MaterialRateRepositoryImpl) ListAll(ctx context.Context) ([]*models.MaterialRate, error) {
	return r.ByFilter(ctx, models.MaterialRateFilter{}, "code ASC", 0, 0)
}

// Update writes the mutable pricing columns of an existing rate.
func (r *MaterialRateRepositoryImpl) Update(ctx context.Context, rate *models.MaterialRate) error {
	return r.write(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.MaterialRate{}).
			Where("code = ?", rate.Code).
			Updates(map[string]any{
				"display_name":    rate.DisplayName,
				"category":        rate.Category,
				"unit":            rate.Unit,
				"unit_weight_kg":  rate.UnitWeightKg,
				"current_rate":    rate.CurrentRate,
				"trend":           rate.Trend,
				"last_change_pct": rate.LastChangePct,
				"updated_at":      rate.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update material rate %s: %w", rate.Code, res.Error)
		}
		return nil
	})
}

func (r *MaterialRateRepositoryImpl) applyFilter(query *gorm.DB, filter models.MaterialRateFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Trend != nil {
		query = query.Where("trend = ?", *filter.Trend)
	}
	return query
}

// ByFilter retrieves rates based on filter criteria.
func (r *MaterialRateRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialRateFilter, orderBy string, limit, offset int) ([]*models.MaterialRate, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.MaterialRate{}), filter)

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

	var rows []*models.MaterialRate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MaterialRateRepositoryImpl) Count(ctx context.Context, filter models.MaterialRateFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.MaterialRate{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MaterialRateRepositoryImpl) Exists(ctx context.Context, filter models.MaterialRateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/theunseenchapter/constructai-sub000/models"
	"gorm.io/gorm"
)

// MaterialPriceHistoryRepositoryImpl implements MaterialPriceHistoryRepository interface.
type MaterialPriceHistoryRepositoryImpl struct {
	*BaseRepository[models.MaterialPriceHistory, models.MaterialPriceHistoryFilter]
}

// NewMaterialPriceHistoryRepository creates a new price history repository.
func NewMaterialPriceHistoryRepository(db *gorm.DB) MaterialPriceHistoryRepository {
	return &MaterialPriceHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MaterialPriceHistory, models.MaterialPriceHistoryFilter](db),
	}
}

func (r *MaterialPriceHistoryRepositoryImpl) ListLatest(ctx context.Context, code string, limit int) ([]*models.MaterialPriceHistory, error) {
	rows, err := r.ByFilter(ctx, models.MaterialPriceHistoryFilter{MaterialCode: &code}, "recorded_at DESC, id DESC", limit, 0)
	if err != nil {
		return nil, err
	}
	reverse(rows)
	return rows, nil
}

// ListLatestByCodes returns the latest entries of each code, chronological per code.
func (r *MaterialPriceHistoryRepositoryImpl) ListLatestByCodes(ctx context.Context, codes []string, limit int) (map[string][]*models.MaterialPriceHistory, error) {
	out := make(map[string][]*models.MaterialPriceHistory, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	var rows []*models.MaterialPriceHistory
	err := r.getDB(ctx).
		Where("material_code IN ?", codes).
		Order("material_code ASC, recorded_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}

	for _, row := range rows {
		if limit > 0 && len(out[row.MaterialCode]) >= limit {
			continue
		}
		out[row.MaterialCode] = append(out[row.MaterialCode], row)
	}
	for code := range out {
		reverse(out[code])
	}
	return out, nil
}

// TrimToLatest deletes all but the keep most recent entries of code.
func (r *MaterialPriceHistoryRepositoryImpl) TrimToLatest(ctx context.Context, code string, keep int) error {
	if keep <= 0 {
		return nil
	}
	return r.write(ctx, func(db *gorm.DB) error {
		var keepIDs []uint
		err := db.Model(&models.MaterialPriceHistory{}).
			Where("material_code = ?", code).
			Order("recorded_at DESC, id DESC").
			Limit(keep).
			Pluck("id", &keepIDs).Error
		if err != nil {
			return fmt.Errorf("failed to select retained history: %w", err)
		}
		if len(keepIDs) < keep {
			return nil
		}
		err = db.Where("material_code = ? AND id NOT IN ?", code, keepIDs).
			Delete(&models.MaterialPriceHistory{}).Error
		if err != nil {
			return fmt.Errorf("failed to trim price history of %s: %w", code, err)
		}
		return nil
	})
}

func (r *MaterialPriceHistoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.MaterialPriceHistoryFilter) *gorm.DB {
	if filter.MaterialCode != nil {
		query = query.Where("material_code = ?", *filter.MaterialCode)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.RecordedAfter != nil {
		query = query.Where("recorded_at >= ?", *filter.RecordedAfter)
	}
	if filter.RecordedBefore != nil {
		query = query.Where("recorded_at < ?", *filter.RecordedBefore)
	}
	return query
}

func (r *MaterialPriceHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialPriceHistoryFilter, orderBy string, limit, offset int) ([]*models.MaterialPriceHistory, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.MaterialPriceHistory{}), filter)

	if orderBy == "" {
		orderBy = "recorded_at ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.MaterialPriceHistory
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MaterialPriceHistoryRepositoryImpl) Count(ctx context.Context, filter models.MaterialPriceHistoryFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.MaterialPriceHistory{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MaterialPriceHistoryRepositoryImpl) Exists(ctx context.Context, filter models.MaterialPriceHistoryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

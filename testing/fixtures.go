package testing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/models"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestRate inserts a material rate row with a stable trend
func (tf *TestFixtures) CreateTestRate(code, category, unit string, price decimal.Decimal) (*models.MaterialRate, error) {
	now := time.Now().UTC()
	rate := &models.MaterialRate{
		Code:          code,
		DisplayName:   "Test " + code,
		Category:      category,
		Unit:          unit,
		UnitWeightKg:  decimal.Zero,
		CurrentRate:   price,
		Trend:         "stable",
		LastChangePct: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tf.DB.DB.Create(rate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rate %s: %w", code, err)
	}
	return rate, nil
}

// CreateTestHistory inserts count history rows for code, one day apart, ending now
func (tf *TestFixtures) CreateTestHistory(code string, start decimal.Decimal, count int) ([]*models.MaterialPriceHistory, error) {
	now := time.Now().UTC()
	rows := make([]*models.MaterialPriceHistory, 0, count)
	price := start
	for i := 0; i < count; i++ {
		row := &models.MaterialPriceHistory{
			MaterialCode: code,
			Price:        price,
			ChangePct:    decimal.Zero,
			Source:       "fixture",
			RecordedAt:   now.Add(-time.Duration(count-1-i) * 24 * time.Hour),
		}
		if err := tf.DB.DB.Create(row).Error; err != nil {
			return nil, fmt.Errorf("failed to create history for %s: %w", code, err)
		}
		rows = append(rows, row)
		price = price.Add(decimal.NewFromInt(1))
	}
	return rows, nil
}

// CreateTestEstimate stores an estimate with the given serialized result
func (tf *TestFixtures) CreateTestEstimate(result string, total decimal.Decimal) (*models.BOQEstimate, error) {
	est := &models.BOQEstimate{
		UUID:      uuid.New(),
		Request:   `{"total_area":1000,"room_counts":{"bedroom":2}}`,
		Result:    result,
		TotalCost: total,
		TotalArea: 1000,
		RoomCount: 2,
		CreatedAt: time.Now().UTC(),
	}
	if err := tf.DB.DB.Create(est).Error; err != nil {
		return nil, fmt.Errorf("failed to create test estimate: %w", err)
	}
	return est, nil
}

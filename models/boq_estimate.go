package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/utils"
	"gorm.io/gorm"
)

// BOQEstimate is a persisted bill of quantities. Request and Result hold the JSON documents
// returned to the caller at estimation time.
type BOQEstimate struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID      uuid.UUID       `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Request   string          `gorm:"type:text;not null" json:"request"`
	Result    string          `gorm:"type:text;not null" json:"result"`
	TotalCost decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"total_cost"`
	TotalArea float64         `gorm:"not null" json:"total_area"`
	RoomCount int             `gorm:"not null" json:"room_count"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_at"`
}

func (BOQEstimate) TableName() string { return "boq_estimates" }

func (b *BOQEstimate) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BOQEstimateFilter represents filter criteria for estimate queries.
type BOQEstimateFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// AllModels lists every table managed by AutoMigrate.
func AllModels() []any {
	return []any{&MaterialRate{}, &MaterialPriceHistory{}, &BOQEstimate{}}
}

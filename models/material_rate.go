package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/utils"
	"gorm.io/gorm"
)

// MaterialRate is the current price row of a material or labor trade.
type MaterialRate struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DisplayName   string          `gorm:"type:varchar(255);not null" json:"display_name"`
	Category      string          `gorm:"type:varchar(32);not null;index" json:"category"`
	Unit          string          `gorm:"type:varchar(16);not null" json:"unit"`
	UnitWeightKg  decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"unit_weight_kg"`
	CurrentRate   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"current_rate"`
	Trend         string          `gorm:"type:varchar(16);not null;default:'stable'" json:"trend"`
	LastChangePct decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"last_change_pct"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (MaterialRate) TableName() string { return "material_rates" }

func (m *MaterialRate) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	return nil
}

// MaterialRateFilter represents filter criteria for material rate queries.
type MaterialRateFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Code     *string `json:"code,omitempty"`
	Category *string `json:"category,omitempty"`
	Trend    *string `json:"trend,omitempty"`
}

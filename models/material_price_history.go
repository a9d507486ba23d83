package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/utils"
	"gorm.io/gorm"
)

// MaterialPriceHistory is one accepted price for a material.
type MaterialPriceHistory struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	MaterialCode string          `gorm:"type:varchar(64);not null;index:idx_price_history_code_recorded,priority:1" json:"material_code"`
	Price        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	ChangePct    decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"change_pct"`
	Source       string          `gorm:"type:varchar(64);not null" json:"source"`
	RecordedAt   time.Time       `gorm:"not null;index:idx_price_history_code_recorded,priority:2" json:"recorded_at"`
}

func (MaterialPriceHistory) TableName() string { return "material_price_histories" }

func (h *MaterialPriceHistory) BeforeCreate(tx *gorm.DB) error {
	if h.RecordedAt.IsZero() {
		h.RecordedAt = utils.UTCNow()
	}
	return nil
}

// MaterialPriceHistoryFilter represents filter criteria for price history queries.
type MaterialPriceHistoryFilter struct {
	MaterialCode   *string    `json:"material_code,omitempty"`
	Source         *string    `json:"source,omitempty"`
	RecordedAfter  *time.Time `json:"recorded_after,omitempty"`
	RecordedBefore *time.Time `json:"recorded_before,omitempty"`
}

package dto

import "github.com/shopspring/decimal"

// UpdatePriceRequest records a new price for an existing material. NewPrice accepts a JSON number or string.
type UpdatePriceRequest struct {
	MaterialCode string          `json:"material_code" validate:"required,max=64"`
	NewPrice     decimal.Decimal `json:"new_price"`
	Source       string          `json:"source,omitempty" validate:"omitempty,max=64"`
}

type UpdatePriceResponse struct {
	Message      string          `json:"message"`
	MaterialCode string          `json:"material_code"`
	OldPrice     decimal.Decimal `json:"old_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	ChangePct    decimal.Decimal `json:"change_pct"`
	Trend        string          `json:"trend"`
	Source       string          `json:"source"`
	Timestamp    string          `json:"timestamp"`
}

type PriceHistoryItem struct {
	Timestamp string          `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

type MaterialRateResponse struct {
	Code          string             `json:"code"`
	DisplayName   string             `json:"display_name"`
	Category      string             `json:"category"`
	Unit          string             `json:"unit"`
	UnitWeightKg  decimal.Decimal    `json:"unit_weight_kg"`
	CurrentRate   decimal.Decimal    `json:"current_rate"`
	Trend         string             `json:"trend"`
	LastChangePct decimal.Decimal    `json:"last_change_pct"`
	UpdatedAt     string             `json:"updated_at"`
	History       []PriceHistoryItem `json:"history,omitempty"`
}

type CurrentPricesResponse struct {
	Message  string                          `json:"message"`
	Currency string                          `json:"currency"`
	Count    int                             `json:"count"`
	Prices   map[string]MaterialRateResponse `json:"prices"`
}

type MaterialResponse struct {
	Message  string               `json:"message"`
	Currency string               `json:"currency"`
	Material MaterialRateResponse `json:"material"`
}

type PriceHistoryResponse struct {
	Message      string             `json:"message"`
	MaterialCode string             `json:"material_code"`
	Days         int                `json:"days"`
	History      []PriceHistoryItem `json:"history"`
}

type RefreshPricesResponse struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

type RefreshSummaryResponse struct {
	Message string `json:"message"`
	Source  string `json:"source"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

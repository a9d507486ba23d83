package dto

import "github.com/shopspring/decimal"

// BOQEstimateRequest asks for a costed bill of quantities. Persist stores the result for later retrieval and export.
type BOQEstimateRequest struct {
	ProjectSpecRequest
	Persist bool `json:"persist,omitempty"`
}

type BOQLineItemResponse struct {
	Category string          `json:"category"`
	Code     string          `json:"code"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

type LaborDaysResponse struct {
	Trade string  `json:"trade"`
	Days  float64 `json:"days"`
}

type BOQEstimateResponse struct {
	Message          string                `json:"message"`
	BOQID            string                `json:"boq_id"`
	Persisted        bool                  `json:"persisted"`
	Currency         string                `json:"currency"`
	TotalArea        float64               `json:"total_area"`
	Floors           int                   `json:"floors"`
	Rooms            []RoomResponse        `json:"rooms"`
	Labor            []LaborDaysResponse   `json:"labor"`
	Items            []BOQLineItemResponse `json:"items"`
	MaterialCost     decimal.Decimal       `json:"material_cost"`
	LaborCost        decimal.Decimal       `json:"labor_cost"`
	OverheadFraction float64               `json:"overhead_fraction"`
	OverheadCost     decimal.Decimal       `json:"overhead_cost"`
	TotalCost        decimal.Decimal       `json:"total_cost"`
	CostPerUnitArea  decimal.Decimal       `json:"cost_per_unit_area"`
	Warnings         []string              `json:"warnings"`
	CreatedAt        string                `json:"created_at"`
}

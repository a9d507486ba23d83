package businessflow

import (
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/config"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

func toProjectSpec(req dto.ProjectSpecRequest) estimation.ProjectSpec {
	counts := make(map[estimation.RoomType]int, len(req.RoomCounts))
	for k, v := range req.RoomCounts {
		counts[estimation.RoomType(k)] = v
	}
	return estimation.ProjectSpec{
		TotalArea:           req.TotalArea,
		RoomCounts:          counts,
		Floors:              req.Floors,
		QualityGrade:        estimation.QualityGrade(req.QualityGrade),
		Location:            estimation.Location(req.Location),
		ConstructionType:    estimation.ConstructionType(req.ConstructionType),
		CirculationFraction: req.CirculationFraction,
		CeilingHeight:       req.CeilingHeight,
		BuildingWidth:       req.BuildingWidth,
		DoorGrade:           estimation.OpeningGrade(req.DoorGrade),
		WindowGrade:         estimation.OpeningGrade(req.WindowGrade),
	}
}

func toOpeningResponses(openings []estimation.Opening) []dto.OpeningResponse {
	out := make([]dto.OpeningResponse, 0, len(openings))
	for _, o := range openings {
		out = append(out, dto.OpeningResponse{
			Kind:   string(o.Kind),
			Type:   o.Type,
			Width:  o.Width,
			Height: o.Height,
			Wall:   string(o.Wall),
			Offset: o.Offset,
		})
	}
	return out
}

func toRoomResponses(rooms []estimation.RoomSpec) []dto.RoomResponse {
	out := make([]dto.RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, dto.RoomResponse{
			Name:       r.Name,
			Type:       string(r.Type),
			TargetArea: r.TargetArea,
			Area:       r.Area,
			Width:      r.Width,
			Length:     r.Length,
			Height:     r.Height,
			X:          r.Position.X,
			Y:          r.Position.Y,
			Doors:      toOpeningResponses(r.Doors),
			Windows:    toOpeningResponses(r.Windows),
		})
	}
	return out
}

func toLineItemResponses(items []estimation.BOQLineItem) []dto.BOQLineItemResponse {
	out := make([]dto.BOQLineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.BOQLineItemResponse{
			Category: string(it.Category),
			Code:     it.Code,
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			Rate:     it.Rate,
			Amount:   it.Amount,
		})
	}
	return out
}

func toRateResponse(r *pricing.MaterialRate, withHistory bool) dto.MaterialRateResponse {
	resp := dto.MaterialRateResponse{
		Code:          r.Code,
		DisplayName:   r.DisplayName,
		Category:      string(r.Category),
		Unit:          r.Unit,
		UnitWeightKg:  r.UnitWeightKg,
		CurrentRate:   r.CurrentRate,
		Trend:         string(r.Trend),
		LastChangePct: r.LastChangePct,
		UpdatedAt:     utils.FormatRFC3339(r.UpdatedAt),
	}
	if withHistory {
		resp.History = toHistoryItems(r.History)
	}
	return resp
}

func toHistoryItems(entries []pricing.PriceHistoryEntry) []dto.PriceHistoryItem {
	out := make([]dto.PriceHistoryItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PriceHistoryItem{
			Timestamp: utils.FormatRFC3339(e.Timestamp),
			Price:     e.Price,
			Source:    e.Source,
			ChangePct: e.ChangePct,
		})
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// redisKey namespaces key with the configured prefix, e.g. "constructai:" + "pricing:current_prices"
func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

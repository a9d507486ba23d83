package businessflow

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

var exportContentTypes = map[string]string{
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportFormatPDF:  "application/pdf",
}

const (
	boqSheetName   = "BOQ"
	roomsSheetName = "Rooms"
	laborSheetName = "Labor"
)

func renderEstimateXLSX(est *dto.BOQEstimateResponse) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), boqSheetName); err != nil {
		return nil, err
	}

	header := []any{"#", "Category", "Code", "Item", "Quantity", "Unit", "Rate", "Amount"}
	if err := xl.SetSheetRow(boqSheetName, "A1", &header); err != nil {
		return nil, err
	}

	rowIdx := 2
	for i, it := range est.Items {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		vals := []any{
			i + 1,
			it.Category,
			it.Code,
			it.ItemName,
			it.Quantity.InexactFloat64(),
			it.Unit,
			it.Rate.InexactFloat64(),
			it.Amount.InexactFloat64(),
		}
		if err := xl.SetSheetRow(boqSheetName, cell, &vals); err != nil {
			return nil, err
		}
		rowIdx++
	}

	rowIdx++
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Material cost", est.MaterialCost},
		{"Labor cost", est.LaborCost},
		{fmt.Sprintf("Overhead (%.0f%%)", est.OverheadFraction*100), est.OverheadCost},
		{"Total cost", est.TotalCost},
		{fmt.Sprintf("Cost per unit area (%.2f)", est.TotalArea), est.CostPerUnitArea},
	}
	for _, t := range totals {
		cell, _ := excelize.CoordinatesToCellName(7, rowIdx)
		vals := []any{t.label, t.value.InexactFloat64()}
		if err := xl.SetSheetRow(boqSheetName, cell, &vals); err != nil {
			return nil, err
		}
		rowIdx++
	}

	if len(est.Warnings) > 0 {
		rowIdx++
		for _, w := range est.Warnings {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			if err := xl.SetCellValue(boqSheetName, cell, w); err != nil {
				return nil, err
			}
			rowIdx++
		}
	}

	if err := writeRoomsSheet(xl, est.Rooms); err != nil {
		return nil, err
	}
	if err := writeLaborSheet(xl, est.Labor); err != nil {
		return nil, err
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRoomsSheet(xl *excelize.File, rooms []dto.RoomResponse) error {
	if _, err := xl.NewSheet(roomsSheetName); err != nil {
		return err
	}
	header := []any{"Room", "Type", "Target Area", "Area", "Width", "Length", "Height", "X", "Y", "Doors", "Windows"}
	if err := xl.SetSheetRow(roomsSheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range rooms {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		vals := []any{
			r.Name, r.Type, r.TargetArea, r.Area, r.Width, r.Length, r.Height, r.X, r.Y,
			describeOpenings(r.Doors), describeOpenings(r.Windows),
		}
		if err := xl.SetSheetRow(roomsSheetName, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}

func writeLaborSheet(xl *excelize.File, labor []dto.LaborDaysResponse) error {
	if _, err := xl.NewSheet(laborSheetName); err != nil {
		return err
	}
	header := []any{"Trade", "Days"}
	if err := xl.SetSheetRow(laborSheetName, "A1", &header); err != nil {
		return err
	}
	for i, l := range labor {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		vals := []any{l.Trade, l.Days}
		if err := xl.SetSheetRow(laborSheetName, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}

func describeOpenings(openings []dto.OpeningResponse) string {
	parts := make([]string, 0, len(openings))
	for _, o := range openings {
		parts = append(parts, fmt.Sprintf("%s %.2fx%.2f %s", o.Type, o.Width, o.Height, o.Wall))
	}
	return strings.Join(parts, "; ")
}

// formatINR renders an amount with two decimals and Indian digit grouping (12,34,567.89)
func formatINR(amount decimal.Decimal) string {
	raw := amount.Abs().StringFixed(2)
	intPart, decPart, _ := strings.Cut(raw, ".")

	grouped := intPart
	if n := len(intPart); n > 3 {
		head, tail := intPart[:n-3], intPart[n-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		grouped = strings.Join(groups, ",") + "," + tail
	}

	out := "INR " + grouped + "." + decPart
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}

package businessflow

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
)

var (
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfSummaryBg = &props.Color{Red: 240, Green: 240, Blue: 240}
	pdfMuted     = &props.Color{Red: 80, Green: 80, Blue: 80}
)

func renderEstimatePDF(est *dto.BOQEstimateResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
		}).
		Build()

	m := maroto.New(cfg)

	addPDFTitle(m, est)
	addPDFItemHeader(m)
	for i, it := range est.Items {
		addPDFItemRow(m, i+1, it)
	}
	addPDFTotals(m, est)
	addPDFWarnings(m, est.Warnings)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPDFTitle(m core.Maroto, est *dto.BOQEstimateResponse) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Bill of Quantities", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New("Estimate: "+est.BOQID, props.Text{Size: 8, Align: align.Left, Color: pdfMuted}),
			),
			col.New(6).Add(
				text.New("Date: "+est.CreatedAt, props.Text{Size: 8, Align: align.Right, Color: pdfMuted}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Built-up area %.2f over %d floor(s), %d rooms", est.TotalArea, est.Floors, len(est.Rooms)),
					props.Text{Size: 9, Align: align.Left}),
			),
		),
		row.New(4),
	)
}

func addPDFItemHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerLeft := headerText
	headerLeft.Align = align.Left
	cell := &props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(cell),
			col.New(4).Add(text.New("Item", headerLeft)).WithStyle(cell),
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(cell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(cell),
			col.New(2).Add(text.New("Rate", headerText)).WithStyle(cell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(cell),
		),
	)
}

func addPDFItemRow(m core.Maroto, idx int, it dto.BOQLineItemResponse) {
	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", idx), base)),
			col.New(4).Add(text.New(it.ItemName, left)),
			col.New(2).Add(text.New(it.Quantity.String(), right)),
			col.New(1).Add(text.New(it.Unit, base)),
			col.New(2).Add(text.New(formatINR(it.Rate), right)),
			col.New(2).Add(text.New(formatINR(it.Amount), right)),
		),
	)
}

func addPDFTotals(m core.Maroto, est *dto.BOQEstimateResponse) {
	m.AddRows(row.New(6))

	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: pdfSummaryBg}

	lines := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"Material cost", est.MaterialCost},
		{"Labor cost", est.LaborCost},
		{fmt.Sprintf("Overhead (%.0f%%)", est.OverheadFraction*100), est.OverheadCost},
		{"Total cost", est.TotalCost},
		{"Cost per unit area", est.CostPerUnitArea},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.name, label)).WithStyle(cell),
				col.New(4).Add(text.New(formatINR(l.amount), value)).WithStyle(cell),
			),
		)
	}
}

func addPDFWarnings(m core.Maroto, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	m.AddRows(row.New(6))
	for _, w := range warnings {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(w, props.Text{Size: 7, Style: fontstyle.Italic, Color: pdfMuted})),
			),
		)
	}
}

package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/models"
	"github.com/theunseenchapter/constructai-sub000/repository"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

const WarningNotPersisted = "ESTIMATE_NOT_PERSISTED"

// RateTableSource supplies the current material and labor rates
type RateTableSource interface {
	RateTable(ctx context.Context) (map[string]estimation.Rate, map[estimation.Trade]estimation.Rate, error)
}

// BOQFlow produces, retrieves and exports bills of quantities
type BOQFlow interface {
	Estimate(ctx context.Context, req *dto.BOQEstimateRequest) (*dto.BOQEstimateResponse, error)
	GetEstimate(ctx context.Context, boqID string) (*dto.BOQEstimateResponse, error)
	Export(ctx context.Context, boqID, format string) (*ExportFile, error)
}

// ExportFile is a rendered estimate ready to be sent as an attachment
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type BOQFlowImpl struct {
	engine       *estimation.Engine
	rates        RateTableSource
	estimateRepo repository.BOQEstimateRepository
	logger       *logrus.Logger
}

// NewBOQFlow creates the estimation flow. A nil estimateRepo disables persistence;
// estimates requested with persist=true then carry a warning instead.
func NewBOQFlow(
	engine *estimation.Engine,
	rates RateTableSource,
	estimateRepo repository.BOQEstimateRepository,
	logger *logrus.Logger,
) BOQFlow {
	return &BOQFlowImpl{
		engine:       engine,
		rates:        rates,
		estimateRepo: estimateRepo,
		logger:       logger,
	}
}

func (f *BOQFlowImpl) Estimate(ctx context.Context, req *dto.BOQEstimateRequest) (*dto.BOQEstimateResponse, error) {
	if req == nil {
		boqEstimatesTotal.WithLabelValues("invalid").Inc()
		return nil, NewBusinessError("INVALID_PROJECT_SPEC", "Project specification is required", ErrInvalidProjectSpec)
	}

	materialRates, laborRates, err := f.rates.RateTable(ctx)
	if err != nil {
		boqEstimatesTotal.WithLabelValues("error").Inc()
		return nil, NewBusinessError("RATE_TABLE_UNAVAILABLE", "Failed to load current rates", err)
	}

	est, err := f.engine.Estimate(toProjectSpec(req.ProjectSpecRequest), materialRates, laborRates)
	if err != nil {
		boqEstimatesTotal.WithLabelValues("invalid").Inc()
		return nil, NewBusinessError("INVALID_PROJECT_SPEC", "Invalid project specification", joinErr(ErrInvalidProjectSpec, err))
	}

	resp := f.buildResponse(est)

	if req.Persist {
		f.persist(ctx, req, resp, est.Result.CreatedAt)
	}

	outcome := "ok"
	for _, w := range resp.Warnings {
		if strings.HasPrefix(w, estimation.WarningPartialRateCoverage) {
			outcome = "partial"
			boqLineItemsMissingRate.Inc()
		}
	}
	boqEstimatesTotal.WithLabelValues(outcome).Inc()

	f.logger.WithFields(logrus.Fields{
		"module":     "boq",
		"func":       "Estimate",
		"boq_id":     resp.BOQID,
		"rooms":      len(resp.Rooms),
		"total_cost": resp.TotalCost.String(),
		"warnings":   len(resp.Warnings),
		"persisted":  resp.Persisted,
		"request_id": ctx.Value(utils.RequestIDKey),
	}).Info("estimate produced")

	return resp, nil
}

func (f *BOQFlowImpl) buildResponse(est *estimation.Estimate) *dto.BOQEstimateResponse {
	labor := make([]dto.LaborDaysResponse, 0, len(est.Labor))
	for _, l := range est.Labor {
		labor = append(labor, dto.LaborDaysResponse{Trade: string(l.Trade), Days: l.Days})
	}

	r := est.Result
	return &dto.BOQEstimateResponse{
		Message:          "Estimate produced successfully",
		BOQID:            uuid.NewString(),
		Currency:         utils.CurrencyINR,
		TotalArea:        r.TotalArea,
		Floors:           est.Spec.Floors,
		Rooms:            toRoomResponses(est.Layout.Rooms),
		Labor:            labor,
		Items:            toLineItemResponses(r.Items),
		MaterialCost:     r.MaterialCost,
		LaborCost:        r.LaborCost,
		OverheadFraction: r.OverheadFraction.InexactFloat64(),
		OverheadCost:     r.OverheadCost,
		TotalCost:        r.TotalCost,
		CostPerUnitArea:  r.CostPerUnitArea,
		Warnings:         nonNilStrings(r.Warnings),
		CreatedAt:        utils.FormatRFC3339(r.CreatedAt),
	}
}

// persist stores the estimate. Failures degrade to a warning on the response.
func (f *BOQFlowImpl) persist(ctx context.Context, req *dto.BOQEstimateRequest, resp *dto.BOQEstimateResponse, createdAt time.Time) {
	if f.estimateRepo == nil {
		resp.Warnings = append(resp.Warnings, WarningNotPersisted+": persistence is disabled")
		return
	}

	id, err := uuid.Parse(resp.BOQID)
	if err == nil {
		err = f.saveEstimate(ctx, id, req, resp, createdAt)
	}
	if err != nil {
		f.logger.WithFields(logrus.Fields{
			"module": "boq",
			"func":   "persist",
			"boq_id": resp.BOQID,
		}).WithError(err).Error("failed to persist estimate")
		resp.Warnings = append(resp.Warnings, WarningNotPersisted+": storage failure")
		return
	}
	resp.Persisted = true
}

func (f *BOQFlowImpl) saveEstimate(ctx context.Context, id uuid.UUID, req *dto.BOQEstimateRequest, resp *dto.BOQEstimateResponse, createdAt time.Time) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return err
	}

	stored := *resp
	stored.Persisted = true
	resJSON, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	return f.estimateRepo.Save(ctx, &models.BOQEstimate{
		UUID:      id,
		Request:   string(reqJSON),
		Result:    string(resJSON),
		TotalCost: resp.TotalCost,
		TotalArea: resp.TotalArea,
		RoomCount: len(resp.Rooms),
		CreatedAt: createdAt,
	})
}

func (f *BOQFlowImpl) GetEstimate(ctx context.Context, boqID string) (*dto.BOQEstimateResponse, error) {
	if f.estimateRepo == nil {
		return nil, NewBusinessError("PERSISTENCE_DISABLED", "Estimate persistence is not enabled", ErrPersistenceOff)
	}
	if _, err := uuid.Parse(boqID); err != nil {
		return nil, NewBusinessError("INVALID_BOQ_ID", "BOQ id must be a UUID", joinErr(ErrInvalidEstimateID, err))
	}

	row, err := f.estimateRepo.ByUUID(ctx, boqID)
	if err != nil {
		return nil, NewBusinessError("ESTIMATE_LOOKUP_FAILED", "Failed to load estimate", err)
	}
	if row == nil {
		return nil, NewBusinessErrorf("ESTIMATE_NOT_FOUND", "Estimate %s not found", ErrEstimateNotFound, boqID)
	}

	var resp dto.BOQEstimateResponse
	if err := json.Unmarshal([]byte(row.Result), &resp); err != nil {
		return nil, NewBusinessError("ESTIMATE_CORRUPT", "Stored estimate could not be decoded", err)
	}
	resp.Message = "Estimate retrieved successfully"
	return &resp, nil
}

func (f *BOQFlowImpl) Export(ctx context.Context, boqID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatPDF {
		return nil, NewBusinessErrorf("UNSUPPORTED_EXPORT_FORMAT", "Export format %q is not supported", ErrUnsupportedFormat, format)
	}

	est, err := f.GetEstimate(ctx, boqID)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch format {
	case ExportFormatPDF:
		body, err = renderEstimatePDF(est)
	default:
		body, err = renderEstimateXLSX(est)
	}
	if err != nil {
		return nil, NewBusinessError("EXPORT_RENDER_FAILED", "Failed to render estimate", err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("boq_%s.%s", est.BOQID, format),
		ContentType: exportContentTypes[format],
		Body:        body,
	}, nil
}

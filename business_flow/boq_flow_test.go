package businessflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/models"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/repository"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

type memEstimateRepo struct {
	repository.BOQEstimateRepository
	rows    map[string]*models.BOQEstimate
	saveErr error
}

func newMemEstimateRepo() *memEstimateRepo {
	return &memEstimateRepo{rows: map[string]*models.BOQEstimate{}}
}

func (r *memEstimateRepo) Save(_ context.Context, e *models.BOQEstimate) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rows[e.UUID.String()] = e
	return nil
}

func (r *memEstimateRepo) ByUUID(_ context.Context, id string) (*models.BOQEstimate, error) {
	return r.rows[id], nil
}

type staticRates struct {
	materials map[string]estimation.Rate
	labor     map[estimation.Trade]estimation.Rate
	err       error
}

func (s staticRates) RateTable(context.Context) (map[string]estimation.Rate, map[estimation.Trade]estimation.Rate, error) {
	return s.materials, s.labor, s.err
}

func seededRateSource(t *testing.T) RateTableSource {
	t.Helper()
	logger, _ := test.NewNullLogger()
	tracker := pricing.NewTracker(pricing.NewInMemoryRateStore(pricing.DefaultHistoryLimit), pricing.TrackerConfig{}, logger, func() time.Time { return fixedNow })
	_, err := tracker.Seed(context.Background(), pricing.DefaultCatalog())
	require.NoError(t, err)
	return tracker
}

func newTestBOQFlow(t *testing.T, rates RateTableSource, repo repository.BOQEstimateRepository) BOQFlow {
	t.Helper()
	logger, _ := test.NewNullLogger()
	engine := estimation.NewEngine(estimation.DefaultConfig(), logger, func() time.Time { return fixedNow })
	return NewBOQFlow(engine, rates, repo, logger)
}

func sampleEstimateRequest(persist bool) *dto.BOQEstimateRequest {
	return &dto.BOQEstimateRequest{
		ProjectSpecRequest: dto.ProjectSpecRequest{
			TotalArea: 1200,
			RoomCounts: map[string]int{
				"bedroom":     2,
				"living_room": 1,
				"kitchen":     1,
				"bathroom":    2,
			},
		},
		Persist: persist,
	}
}

func TestBOQFlowEstimate(t *testing.T) {
	flow := newTestBOQFlow(t, seededRateSource(t), nil)

	resp, err := flow.Estimate(context.Background(), sampleEstimateRequest(false))
	require.NoError(t, err)

	_, err = uuid.Parse(resp.BOQID)
	require.NoError(t, err)
	assert.Equal(t, "INR", resp.Currency)
	assert.Len(t, resp.Rooms, 6)
	assert.NotEmpty(t, resp.Items)
	assert.NotEmpty(t, resp.Labor)
	assert.False(t, resp.Persisted)
	assert.Equal(t, "2025-06-02T10:30:00Z", resp.CreatedAt)
	for _, w := range resp.Warnings {
		assert.False(t, strings.HasPrefix(w, estimation.WarningPartialRateCoverage), w)
	}

	sum := resp.MaterialCost.Add(resp.LaborCost).Add(resp.OverheadCost)
	assert.True(t, resp.TotalCost.Equal(sum), "%s != %s", resp.TotalCost, sum)

	var roomArea float64
	for _, r := range resp.Rooms {
		assert.Greater(t, r.Area, 0.0)
		roomArea += r.Area
	}
	assert.LessOrEqual(t, roomArea, 1080.0+1e-6)
}

func TestBOQFlowEstimateRejectsInvalidSpec(t *testing.T) {
	flow := newTestBOQFlow(t, seededRateSource(t), nil)

	cases := []struct {
		name string
		req  *dto.BOQEstimateRequest
	}{
		{"nil request", nil},
		{"zero area", &dto.BOQEstimateRequest{ProjectSpecRequest: dto.ProjectSpecRequest{RoomCounts: map[string]int{"bedroom": 1}}}},
		{"no rooms", &dto.BOQEstimateRequest{ProjectSpecRequest: dto.ProjectSpecRequest{TotalArea: 900, RoomCounts: map[string]int{}}}},
		{"unknown room", &dto.BOQEstimateRequest{ProjectSpecRequest: dto.ProjectSpecRequest{TotalArea: 900, RoomCounts: map[string]int{"garage": 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := flow.Estimate(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, IsInvalidProjectSpec(err))

			var be *BusinessError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, "INVALID_PROJECT_SPEC", be.Code)
		})
	}
}

func TestBOQFlowEstimatePartialRates(t *testing.T) {
	rates := staticRates{
		materials: map[string]estimation.Rate{
			estimation.MaterialCement: {Name: "Cement", Rate: decimal.NewFromInt(420), Unit: "bag"},
		},
		labor: map[estimation.Trade]estimation.Rate{},
	}
	flow := newTestBOQFlow(t, rates, nil)

	resp, err := flow.Estimate(context.Background(), sampleEstimateRequest(false))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, estimation.MaterialCement, resp.Items[0].Code)
	assert.True(t, resp.LaborCost.IsZero())

	partial := 0
	for _, w := range resp.Warnings {
		if strings.HasPrefix(w, estimation.WarningPartialRateCoverage) {
			partial++
		}
	}
	assert.Greater(t, partial, 0)
}

func TestBOQFlowEstimateRateSourceFailure(t *testing.T) {
	flow := newTestBOQFlow(t, staticRates{err: errors.New("store down")}, nil)

	_, err := flow.Estimate(context.Background(), sampleEstimateRequest(false))
	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "RATE_TABLE_UNAVAILABLE", be.Code)
}

func TestBOQFlowPersistence(t *testing.T) {
	t.Run("disabled adds warning", func(t *testing.T) {
		flow := newTestBOQFlow(t, seededRateSource(t), nil)

		resp, err := flow.Estimate(context.Background(), sampleEstimateRequest(true))
		require.NoError(t, err)
		assert.False(t, resp.Persisted)
		require.NotEmpty(t, resp.Warnings)
		assert.True(t, strings.HasPrefix(resp.Warnings[len(resp.Warnings)-1], WarningNotPersisted))

		_, err = flow.GetEstimate(context.Background(), resp.BOQID)
		assert.True(t, IsPersistenceOff(err))
	})

	t.Run("storage failure degrades to warning", func(t *testing.T) {
		repo := newMemEstimateRepo()
		repo.saveErr = errors.New("connection reset")
		flow := newTestBOQFlow(t, seededRateSource(t), repo)

		resp, err := flow.Estimate(context.Background(), sampleEstimateRequest(true))
		require.NoError(t, err)
		assert.False(t, resp.Persisted)
		assert.Contains(t, resp.Warnings, WarningNotPersisted+": storage failure")
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newMemEstimateRepo()
		flow := newTestBOQFlow(t, seededRateSource(t), repo)
		ctx := context.Background()

		resp, err := flow.Estimate(ctx, sampleEstimateRequest(true))
		require.NoError(t, err)
		assert.True(t, resp.Persisted)
		require.Len(t, repo.rows, 1)

		row := repo.rows[resp.BOQID]
		require.NotNil(t, row)
		assert.Equal(t, 6, row.RoomCount)
		assert.True(t, row.TotalCost.Equal(resp.TotalCost))
		assert.Equal(t, fixedNow, row.CreatedAt)

		got, err := flow.GetEstimate(ctx, resp.BOQID)
		require.NoError(t, err)
		assert.Equal(t, resp.BOQID, got.BOQID)
		assert.True(t, got.Persisted)
		assert.True(t, got.TotalCost.Equal(resp.TotalCost))
		assert.Len(t, got.Items, len(resp.Items))
		assert.Equal(t, "Estimate retrieved successfully", got.Message)
	})

	t.Run("lookup errors", func(t *testing.T) {
		flow := newTestBOQFlow(t, seededRateSource(t), newMemEstimateRepo())

		_, err := flow.GetEstimate(context.Background(), "not-a-uuid")
		assert.True(t, IsInvalidEstimateID(err))

		_, err = flow.GetEstimate(context.Background(), uuid.NewString())
		assert.True(t, IsEstimateNotFound(err))
	})
}

func TestBOQFlowExport(t *testing.T) {
	repo := newMemEstimateRepo()
	flow := newTestBOQFlow(t, seededRateSource(t), repo)
	ctx := context.Background()

	resp, err := flow.Estimate(ctx, sampleEstimateRequest(true))
	require.NoError(t, err)

	t.Run("xlsx", func(t *testing.T) {
		file, err := flow.Export(ctx, resp.BOQID, "")
		require.NoError(t, err)
		assert.Equal(t, "boq_"+resp.BOQID+".xlsx", file.Filename)
		assert.Equal(t, exportContentTypes[ExportFormatXLSX], file.ContentType)

		xl, err := excelize.OpenReader(bytes.NewReader(file.Body))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		assert.Equal(t, []string{boqSheetName, roomsSheetName, laborSheetName}, xl.GetSheetList())

		rows, err := xl.GetRows(boqSheetName)
		require.NoError(t, err)
		require.Greater(t, len(rows), len(resp.Items))
		assert.Equal(t, "Item", rows[0][3])
		assert.Equal(t, resp.Items[0].ItemName, rows[1][3])

		roomRows, err := xl.GetRows(roomsSheetName)
		require.NoError(t, err)
		assert.Len(t, roomRows, len(resp.Rooms)+1)
	})

	t.Run("pdf", func(t *testing.T) {
		file, err := flow.Export(ctx, resp.BOQID, "PDF")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.ContentType)
		require.Greater(t, len(file.Body), 5)
		assert.Equal(t, "%PDF-", string(file.Body[:5]))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := flow.Export(ctx, resp.BOQID, "csv")
		assert.True(t, IsUnsupportedFormat(err))
	})
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "INR 0.00"},
		{"420", "INR 420.00"},
		{"4200", "INR 4,200.00"},
		{"1234567.891", "INR 12,34,567.89"},
		{"-98765.4", "-INR 98,765.40"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, formatINR(decimal.RequireFromString(tc.in)))
		})
	}
}

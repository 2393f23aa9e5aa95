package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/infrastructure/storage"
)

// stubDetector replays scripted detection results in order; once the script
// is exhausted it keeps returning the last entry.
type stubDetector struct {
	results [][]entity.DefectKind
	err     error
	calls   int
}

func (d *stubDetector) Detect(ctx context.Context, item *entity.Item) ([]entity.DefectKind, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(d.results) == 0 {
		return nil, nil
	}
	i := d.calls
	if i >= len(d.results) {
		i = len(d.results) - 1
	}
	d.calls++
	return d.results[i], nil
}

func newTestService(t *testing.T) (*InspectionService, *storage.MemoryInspectionLog) {
	t.Helper()
	log := storage.NewMemoryInspectionLog()
	svc := NewInspectionService(log)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, log
}

func TestInspectUnknownProcess(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	_, err := svc.Inspect(ctx, item, "tempering")
	require.ErrorIs(t, err, ErrUnknownProcess)

	// The failed call must not touch the item or the log.
	require.Equal(t, entity.StatusPending, item.Status())
	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestInspectRecordsBreakageRejection(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{{entity.DefectBreakage}}})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	status, err := svc.Inspect(ctx, item, ProcessMolding)
	require.NoError(t, err)
	require.Equal(t, entity.StatusRejected, status)
	require.Equal(t, []entity.DefectKind{entity.DefectBreakage}, item.Defects())

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "LOT-1", records[0].BatchID)
	require.Equal(t, ProcessMolding, records[0].Process)
	require.Equal(t, []entity.DefectKind{entity.DefectBreakage}, records[0].Defects)
	require.Equal(t, entity.StatusRejected, records[0].Result)
	require.Equal(t, entity.VariantMolded, records[0].Variant)
	require.NotEmpty(t, records[0].ID)
}

func TestStainsDoNotRejectMolding(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{
		{entity.DefectStains},
		{},
	}})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")

	status, err := svc.Inspect(ctx, item, ProcessMolding)
	require.NoError(t, err)
	require.Equal(t, entity.StatusApproved, status)

	status, err = svc.Inspect(ctx, item, ProcessMolding)
	require.NoError(t, err)
	require.Equal(t, entity.StatusApproved, status)
	require.Equal(t, []entity.DefectKind{entity.DefectStains}, item.Defects())
}

func TestRegisterDetectorOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{{entity.DefectBreakage}}})
	svc.RegisterDetector(ProcessMolding, &stubDetector{})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	status, err := svc.Inspect(ctx, item, ProcessMolding)
	require.NoError(t, err)
	require.Equal(t, entity.StatusApproved, status)
	require.Empty(t, item.Defects())
}

func TestDetectorErrorPropagates(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	sensorErr := errors.New("sensor offline")
	svc.RegisterDetector(ProcessMolding, &stubDetector{err: sensorErr})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	_, err := svc.Inspect(ctx, item, ProcessMolding)
	require.ErrorIs(t, err, sensorErr)

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestGenerateReportEmptyLog(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.GenerateReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "No inspection data available to generate a report.", report)
}

func TestGenerateReportApprovalRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{
		{},
		{entity.DefectStains},
		{},
		{entity.DefectBreakage},
	}})

	for i := 0; i < 4; i++ {
		item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
		_, err := svc.Inspect(ctx, item, ProcessMolding)
		require.NoError(t, err)
	}

	report, err := svc.GenerateReport(ctx)
	require.NoError(t, err)
	require.Contains(t, report, "Total inspections: 4")
	require.Contains(t, report, "Approved products: 3")
	require.Contains(t, report, "Rejected products: 1")
	require.Contains(t, report, "Approval rate: 75.00%")
}

func TestGenerateReportNoDefectsLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	_, err := svc.Inspect(ctx, item, ProcessMolding)
	require.NoError(t, err)

	report, err := svc.GenerateReport(ctx)
	require.NoError(t, err)
	require.Contains(t, report, "No defects detected")
	require.NotContains(t, report, "occurrences")
}

func TestGenerateReportTalliesPerCall(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// The same persistent stain is reported on both calls, so the tally
	// counts it twice even though the item holds it once.
	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{
		{entity.DefectStains},
		{entity.DefectStains, entity.DefectBreakage},
	}})

	item := entity.NewMoldedItem("LOT-1", time.Now(), "heart")
	for i := 0; i < 2; i++ {
		_, err := svc.Inspect(ctx, item, ProcessMolding)
		require.NoError(t, err)
	}
	require.Equal(t, []entity.DefectKind{entity.DefectStains, entity.DefectBreakage}, item.Defects())

	report, err := svc.GenerateReport(ctx)
	require.NoError(t, err)
	require.Contains(t, report, "- stains: 2 occurrences")
	require.Contains(t, report, "- breakage: 1 occurrences")

	// First-seen order: stains appeared before breakage.
	require.Less(t, strings.Index(report, "stains"), strings.Index(report, "breakage"))
}

func TestListInspectionsEmptyLog(t *testing.T) {
	svc, _ := newTestService(t)

	history, err := svc.ListInspections(context.Background())
	require.NoError(t, err)
	require.Equal(t, "No inspections recorded.", history)
}

func TestListInspectionsNumbersEntriesInCallOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.RegisterDetector(ProcessMolding, &stubDetector{results: [][]entity.DefectKind{{entity.DefectBreakage}, {}}})
	svc.RegisterDetector(ProcessPackaging, &stubDetector{})

	_, err := svc.Inspect(ctx, entity.NewMoldedItem("LOT-A", time.Now(), "heart"), ProcessMolding)
	require.NoError(t, err)
	_, err = svc.Inspect(ctx, entity.NewMoldedItem("LOT-B", time.Now(), "heart"), ProcessMolding)
	require.NoError(t, err)
	_, err = svc.Inspect(ctx, entity.NewPackagedItem("LOT-C", time.Now(), "gift_box"), ProcessPackaging)
	require.NoError(t, err)

	history, err := svc.ListInspections(ctx)
	require.NoError(t, err)
	require.Contains(t, history, "1. Batch: LOT-A | Process: molding | Result: rejected")
	require.Contains(t, history, "2. Batch: LOT-B | Process: molding | Result: approved")
	require.Contains(t, history, "3. Batch: LOT-C | Process: packaging | Result: approved")
	require.Contains(t, history, "Defects: breakage")
	require.Contains(t, history, "Date: 2026-08-31 12:00:00")

	// The defects line is present only for the first entry.
	require.Equal(t, 1, strings.Count(history, "Defects:"))
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

// Production process names the detectors are registered under.
const (
	ProcessMolding   = "molding"
	ProcessPackaging = "packaging"
)

// ErrUnknownProcess is returned by Inspect when the process has no
// registered detector.
var ErrUnknownProcess = errors.New("no detector registered for process")

const (
	msgNoReportData = "No inspection data available to generate a report."
	msgNoHistory    = "No inspections recorded."

	timestampLayout = "2006-01-02 15:04:05"
)

// InspectionService binds detectors to processes, runs inspections, keeps
// the record log and renders aggregate reports.
type InspectionService struct {
	mu        sync.Mutex
	detectors map[string]port.DefectDetector
	log       port.InspectionLog
	now       func() time.Time
}

// NewInspectionService creates a service writing records to the given log.
func NewInspectionService(log port.InspectionLog) *InspectionService {
	return &InspectionService{
		detectors: make(map[string]port.DefectDetector),
		log:       log,
		now:       time.Now,
	}
}

// RegisterDetector binds a detector to a process name. A repeated
// registration replaces the previous binding.
func (s *InspectionService) RegisterDetector(process string, detector port.DefectDetector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detectors[process] = detector
}

// Inspect runs the process detector against the item, applies the found
// defects, evaluates the item and appends a record. The lock covers the
// whole call so records land in call order.
func (s *InspectionService) Inspect(ctx context.Context, item *entity.Item, process string) (entity.QualityStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detector, ok := s.detectors[process]
	if !ok {
		return entity.StatusPending, fmt.Errorf("%w: %s", ErrUnknownProcess, process)
	}

	found, err := detector.Detect(ctx, item)
	if err != nil {
		return entity.StatusPending, err
	}

	for _, kind := range found {
		item.AddDefect(kind)
	}

	result := item.Evaluate()

	record := entity.InspectionRecord{
		ID:        uuid.NewString(),
		BatchID:   item.BatchID(),
		Timestamp: s.now(),
		Process:   process,
		Defects:   found,
		Result:    result,
		Variant:   item.Variant(),
	}
	if err := s.log.Append(ctx, record); err != nil {
		return entity.StatusPending, err
	}

	return result, nil
}

// GenerateReport renders aggregate statistics over all recorded inspections.
func (s *InspectionService) GenerateReport(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.log.List(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return msgNoReportData, nil
	}

	total := len(records)
	approved := 0
	for _, r := range records {
		if r.Result == entity.StatusApproved {
			approved++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(approved) / float64(total) * 100
	}

	var b strings.Builder
	b.WriteString("QUALITY CONTROL REPORT\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Total inspections: %d\n", total)
	fmt.Fprintf(&b, "Approved products: %d\n", approved)
	fmt.Fprintf(&b, "Rejected products: %d\n", total-approved)
	fmt.Fprintf(&b, "Approval rate: %.2f%%\n", rate)
	b.WriteString("\nDefect breakdown:\n")

	// Tally the per-call defect lists, keeping first-seen order. A defect
	// persisting across repeated inspections of the same item is counted
	// once per call.
	counts := make(map[entity.DefectKind]int)
	var order []entity.DefectKind
	for _, r := range records {
		for _, kind := range r.Defects {
			if counts[kind] == 0 {
				order = append(order, kind)
			}
			counts[kind]++
		}
	}

	if len(order) == 0 {
		b.WriteString("  No defects detected\n")
		return b.String(), nil
	}
	for _, kind := range order {
		fmt.Fprintf(&b, "  - %s: %d occurrences\n", kind, counts[kind])
	}

	return b.String(), nil
}

// ListInspections renders the full inspection history, one numbered entry
// per record.
func (s *InspectionService) ListInspections(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.log.List(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return msgNoHistory, nil
	}

	var b strings.Builder
	b.WriteString("INSPECTION HISTORY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for i, r := range records {
		fmt.Fprintf(&b, "%d. Batch: %s | Process: %s | Result: %s\n", i+1, r.BatchID, r.Process, r.Result)
		if len(r.Defects) > 0 {
			fmt.Fprintf(&b, "   Defects: %s\n", joinKinds(r.Defects))
		}
		fmt.Fprintf(&b, "   Date: %s\n", r.Timestamp.Format(timestampLayout))
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}

	return b.String(), nil
}

func joinKinds(kinds []entity.DefectKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

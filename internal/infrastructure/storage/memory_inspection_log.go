package storage

import (
	"context"
	"sync"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

// MemoryInspectionLog is an in-memory append-only inspection log.
type MemoryInspectionLog struct {
	mu      sync.RWMutex
	records []entity.InspectionRecord
}

// NewMemoryInspectionLog creates an empty in-memory log.
func NewMemoryInspectionLog() *MemoryInspectionLog {
	return &MemoryInspectionLog{}
}

// Append adds a record to the end of the log.
func (l *MemoryInspectionLog) Append(ctx context.Context, record entity.InspectionRecord) error {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()

	return nil
}

// List returns a copy of all records in append order.
func (l *MemoryInspectionLog) List(ctx context.Context) ([]entity.InspectionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.InspectionRecord, len(l.records))
	copy(out, l.records)

	return out, nil
}

var _ port.InspectionLog = (*MemoryInspectionLog)(nil)

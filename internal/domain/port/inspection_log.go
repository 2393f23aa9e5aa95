package port

import (
	"context"

	"quality-bot/internal/domain/entity"
)

// InspectionLog is an append-only store of inspection records.
type InspectionLog interface {
	// Append adds a record to the end of the log.
	Append(ctx context.Context, record entity.InspectionRecord) error

	// List returns all records in append order.
	List(ctx context.Context) ([]entity.InspectionRecord, error)
}

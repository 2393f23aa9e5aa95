package port

import (
	"context"

	"quality-bot/internal/domain/entity"
)

// DefectDetector is the sensor capability bound to a production process.
type DefectDetector interface {
	// Detect returns the defects found on the item in one detection pass.
	// The list may be empty or contain duplicates.
	Detect(ctx context.Context, item *entity.Item) ([]entity.DefectKind, error)
}

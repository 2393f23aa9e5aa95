package entity

import "time"

// InspectionRecord is an immutable snapshot of a single inspection call.
// Defects holds the kinds found in that call, not the item's cumulative set.
type InspectionRecord struct {
	ID        string
	BatchID   string
	Timestamp time.Time
	Process   string
	Defects   []DefectKind
	Result    QualityStatus
	Variant   ProcessVariant
}

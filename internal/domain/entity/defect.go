package entity

// DefectKind is a discrete flaw classification attached to an item.
type DefectKind string

const (
	DefectAirBubbles       DefectKind = "air_bubbles"
	DefectBreakage         DefectKind = "breakage"
	DefectWrongShape       DefectKind = "wrong_shape"
	DefectStains           DefectKind = "stains"
	DefectMissingPiece     DefectKind = "missing_piece"
	DefectDamagedPackaging DefectKind = "damaged_packaging"
)

// QualityStatus is the verdict of a quality evaluation.
type QualityStatus string

const (
	StatusApproved QualityStatus = "approved"
	StatusRejected QualityStatus = "rejected"
	StatusPending  QualityStatus = "pending"
)

package entity

import "time"

// ProcessVariant selects which evaluation rule applies to an item.
type ProcessVariant string

const (
	VariantMolded   ProcessVariant = "molded"
	VariantPackaged ProcessVariant = "packaged"
)

// rejectionRules maps a process variant to the defect kinds that reject it.
// Stains do not reject a molded item; that asymmetry follows the plant's
// molding criteria.
var rejectionRules = map[ProcessVariant]map[DefectKind]bool{
	VariantMolded: {
		DefectAirBubbles: true,
		DefectBreakage:   true,
		DefectWrongShape: true,
	},
	VariantPackaged: {
		DefectBreakage:         true,
		DefectDamagedPackaging: true,
		DefectMissingPiece:     true,
	},
}

// Item represents one production batch moving through an inspection stage.
type Item struct {
	batchID    string
	producedAt time.Time
	variant    ProcessVariant
	detail     string
	defects    []DefectKind
	status     QualityStatus
}

// NewItem creates an item for an arbitrary process variant. Variants without
// a rejection rule set are evaluated with the base rule.
func NewItem(batchID string, producedAt time.Time, variant ProcessVariant, detail string) *Item {
	return &Item{
		batchID:    batchID,
		producedAt: producedAt,
		variant:    variant,
		detail:     detail,
		status:     StatusPending,
	}
}

// NewMoldedItem creates an item for the molding process.
func NewMoldedItem(batchID string, producedAt time.Time, moldType string) *Item {
	return NewItem(batchID, producedAt, VariantMolded, moldType)
}

// NewPackagedItem creates an item for the packaging process.
func NewPackagedItem(batchID string, producedAt time.Time, packagingType string) *Item {
	return NewItem(batchID, producedAt, VariantPackaged, packagingType)
}

// BatchID returns the production batch identifier.
func (i *Item) BatchID() string { return i.batchID }

// ProducedAt returns the production timestamp.
func (i *Item) ProducedAt() time.Time { return i.producedAt }

// Variant returns the process variant tag.
func (i *Item) Variant() ProcessVariant { return i.variant }

// Detail returns the variant-specific tag (mold type, packaging type).
func (i *Item) Detail() string { return i.detail }

// Status returns the result of the last evaluation, or Pending before the
// first one.
func (i *Item) Status() QualityStatus { return i.status }

// AddDefect records a defect. Adding an already recorded kind is a no-op.
func (i *Item) AddDefect(kind DefectKind) {
	for _, d := range i.defects {
		if d == kind {
			return
		}
	}
	i.defects = append(i.defects, kind)
}

// Defects returns a copy of the recorded defects in insertion order.
func (i *Item) Defects() []DefectKind {
	out := make([]DefectKind, len(i.defects))
	copy(out, i.defects)
	return out
}

// Evaluate recomputes the quality status from the current defect set and
// returns it.
func (i *Item) Evaluate() QualityStatus {
	rules, ok := rejectionRules[i.variant]
	if !ok {
		// Base rule: approved only when no defects were recorded.
		if len(i.defects) == 0 {
			i.status = StatusApproved
		} else {
			i.status = StatusRejected
		}
		return i.status
	}

	i.status = StatusApproved
	for _, d := range i.defects {
		if rules[d] {
			i.status = StatusRejected
			break
		}
	}
	return i.status
}

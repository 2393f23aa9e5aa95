package vision

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

var (
	moldingPool = []entity.DefectKind{
		entity.DefectAirBubbles,
		entity.DefectBreakage,
		entity.DefectWrongShape,
		entity.DefectStains,
	}
	packagingPool = []entity.DefectKind{
		entity.DefectBreakage,
		entity.DefectDamagedPackaging,
		entity.DefectMissingPiece,
	}
)

// MockDetector simulates a visual sensor with random draws. It stands in
// for a real imaging system and reproduces only its observable contract.
type MockDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockDetector creates a detector backed by the given random source.
// A nil source falls back to a time-seeded one.
func NewMockDetector(src rand.Source) *MockDetector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MockDetector{rng: rand.New(src)}
}

// Detect draws zero to two defects for a molded item, zero or one for a
// packaged item, and nothing for any other variant.
func (d *MockDetector) Detect(ctx context.Context, item *entity.Item) ([]entity.DefectKind, error) {
	_ = ctx

	switch item.Variant() {
	case entity.VariantMolded:
		return d.draw(moldingPool, 2), nil
	case entity.VariantPackaged:
		return d.draw(packagingPool, 1), nil
	default:
		return nil, nil
	}
}

// draw picks between zero and maxDraws defects from the pool, repetition
// allowed. The mutex keeps the shared rng safe across concurrent calls.
func (d *MockDetector) draw(pool []entity.DefectKind, maxDraws int) []entity.DefectKind {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.rng.Intn(maxDraws + 1)
	found := make([]entity.DefectKind, 0, n)
	for i := 0; i < n; i++ {
		found = append(found, pool[d.rng.Intn(len(pool))])
	}
	return found
}

var _ port.DefectDetector = (*MockDetector)(nil)

package app

import (
	"context"
	"fmt"

	"quality-bot/internal/domain/entity"
)

// Variant detail tags used by the production flows.
const (
	defaultMoldType      = "heart"
	defaultPackagingType = "gift_box"
)

// StageOutcome is the verdict of one production stage.
type StageOutcome struct {
	BatchID string
	Process string
	Result  entity.QualityStatus
	Defects []entity.DefectKind
}

// FullProcessResult is the outcome of a molding run and, when molding
// approved the batch, the packaging run of its sibling item.
type FullProcessResult struct {
	Molding   StageOutcome
	Packaging *StageOutcome
}

// RunFullProcess inspects a batch at molding and, if approved, inspects the
// packaged sibling at packaging.
func (s *InspectionService) RunFullProcess(ctx context.Context, batchID string) (*FullProcessResult, error) {
	molded := entity.NewMoldedItem(batchID+"-M", s.now(), defaultMoldType)
	moldResult, err := s.Inspect(ctx, molded, ProcessMolding)
	if err != nil {
		return nil, err
	}

	result := &FullProcessResult{
		Molding: StageOutcome{
			BatchID: molded.BatchID(),
			Process: ProcessMolding,
			Result:  moldResult,
			Defects: molded.Defects(),
		},
	}
	if moldResult != entity.StatusApproved {
		return result, nil
	}

	packaged := entity.NewPackagedItem(batchID+"-E", s.now(), defaultPackagingType)
	packResult, err := s.Inspect(ctx, packaged, ProcessPackaging)
	if err != nil {
		return nil, err
	}
	result.Packaging = &StageOutcome{
		BatchID: packaged.BatchID(),
		Process: ProcessPackaging,
		Result:  packResult,
		Defects: packaged.Defects(),
	}

	return result, nil
}

// SimulateProduction produces count molded items, inspects each one and,
// for each approved one, produces and inspects a packaged sibling.
func (s *InspectionService) SimulateProduction(ctx context.Context, count int) ([]FullProcessResult, error) {
	results := make([]FullProcessResult, 0, count)
	for i := 1; i <= count; i++ {
		molded := entity.NewMoldedItem(fmt.Sprintf("LOT-M-%d", i), s.now(), defaultMoldType)
		moldResult, err := s.Inspect(ctx, molded, ProcessMolding)
		if err != nil {
			return results, err
		}

		run := FullProcessResult{
			Molding: StageOutcome{
				BatchID: molded.BatchID(),
				Process: ProcessMolding,
				Result:  moldResult,
				Defects: molded.Defects(),
			},
		}
		if moldResult == entity.StatusApproved {
			packaged := entity.NewPackagedItem(fmt.Sprintf("LOT-E-%d", i), s.now(), defaultPackagingType)
			packResult, err := s.Inspect(ctx, packaged, ProcessPackaging)
			if err != nil {
				return results, err
			}
			run.Packaging = &StageOutcome{
				BatchID: packaged.BatchID(),
				Process: ProcessPackaging,
				Result:  packResult,
				Defects: packaged.Defects(),
			}
		}
		results = append(results, run)
	}

	return results, nil
}

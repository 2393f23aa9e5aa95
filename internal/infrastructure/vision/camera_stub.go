//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

// CameraDetector is a stub used when the binary is built without OpenCV.
type CameraDetector struct {
	Device                string
	MinAreaRatio          float64
	MinAspectRatio        float64
	MaxAspectRatio        float64
	MaxSide               int
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxBrightSpotRatio    float64
	MaxDarkPatchRatio     float64
	MinFillRatio          float64
	MaxFragments          int
}

// NewCameraDetector creates a stub detector (no OpenCV).
func NewCameraDetector(device string) *CameraDetector {
	return &CameraDetector{
		Device:                device,
		MinAreaRatio:          0.001,
		MinAspectRatio:        0.5,
		MaxAspectRatio:        2.0,
		MaxSide:               1024,
		MinImageSide:          400,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxBrightSpotRatio:    0.01,
		MaxDarkPatchRatio:     0.04,
		MinFillRatio:          0.10,
		MaxFragments:          4,
	}
}

// Detect returns an error when built without the gocv tag.
func (d *CameraDetector) Detect(ctx context.Context, item *entity.Item) ([]entity.DefectKind, error) {
	_ = ctx
	_ = item
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.DefectDetector = (*CameraDetector)(nil)

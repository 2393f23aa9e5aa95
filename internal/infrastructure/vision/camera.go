//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

// CameraDetector grabs a frame from a station camera and classifies image
// features into defect kinds for the item's process variant.
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

// NewCameraDetector creates a detector reading from the given capture device.
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

// Detect captures one frame and returns the defect kinds found on it.
func (d *CameraDetector) Detect(ctx context.Context, item *entity.Item) ([]entity.DefectKind, error) {
	_ = ctx

	mat, err := d.captureFrame()
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if err := d.checkFrameQuality(mat); err != nil {
		return nil, err
	}

	// Normalize the frame size so the ratio thresholds stay stable.
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale := float64(d.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	switch item.Variant() {
	case entity.VariantMolded:
		return d.classifyMolded(mat), nil
	case entity.VariantPackaged:
		return d.classifyPackaged(mat), nil
	default:
		return nil, nil
	}
}

func (d *CameraDetector) captureFrame() (gocv.Mat, error) {
	capture, err := gocv.OpenVideoCapture(d.Device)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("open capture device %s: %w", d.Device, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	if ok := capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("read frame from device %s", d.Device)
	}
	return mat, nil
}

// classifyMolded maps silhouette and surface features to molding defects.
func (d *CameraDetector) classifyMolded(mat gocv.Mat) []entity.DefectKind {
	var found []entity.DefectKind

	silhouette, fragments := d.silhouette(mat)
	if silhouette != nil {
		aspect := float64(silhouette.Dx()) / float64(silhouette.Dy())
		if aspect < d.MinAspectRatio || aspect > d.MaxAspectRatio {
			found = append(found, entity.DefectWrongShape)
		}
	}
	if fragments > d.MaxFragments {
		found = append(found, entity.DefectBreakage)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Small specular highlights on the surface read as trapped air.
	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 235, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > d.MaxBrightSpotRatio {
		found = append(found, entity.DefectAirBubbles)
	}

	// Localized dark patches read as surface stains.
	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 45, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > d.MaxDarkPatchRatio {
		found = append(found, entity.DefectStains)
	}

	return found
}

// classifyPackaged maps silhouette features to packaging defects.
func (d *CameraDetector) classifyPackaged(mat gocv.Mat) []entity.DefectKind {
	var found []entity.DefectKind

	silhouette, fragments := d.silhouette(mat)
	if silhouette == nil || float64(silhouette.Dx()*silhouette.Dy()) < float64(mat.Cols()*mat.Rows())*d.MinFillRatio {
		found = append(found, entity.DefectMissingPiece)
	}
	if fragments > d.MaxFragments {
		found = append(found, entity.DefectBreakage)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// A torn wrapper shows up as an unusually dense edge map.
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)
	if r := ratioOfMask(edges); r > d.MinSharpnessEdgeRatio*8 {
		found = append(found, entity.DefectDamagedPackaging)
	}

	return found
}

// silhouette returns the bounding rect of the largest contour and the number
// of contours above the minimal area.
func (d *CameraDetector) silhouette(mat gocv.Mat) (*image.Rectangle, int) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, 50, 150)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := int(float64(mat.Cols()*mat.Rows()) * d.MinAreaRatio)
	var largest *image.Rectangle
	fragments := 0
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		area := rect.Dx() * rect.Dy()
		if area < minArea || rect.Dy() == 0 {
			continue
		}
		fragments++
		if largest == nil || area > largest.Dx()*largest.Dy() {
			r := rect
			largest = &r
		}
	}
	return largest, fragments
}

func (d *CameraDetector) checkFrameQuality(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("quality gate failed: empty frame")
	}
	if mat.Cols() < d.MinImageSide || mat.Rows() < d.MinImageSide {
		return fmt.Errorf("quality gate failed: frame is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < d.MinSharpnessEdgeRatio {
		return fmt.Errorf("quality gate failed: frame is blurry (edge_ratio=%.4f)", r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > d.MaxOverexposedRatio {
		return fmt.Errorf("quality gate failed: overexposed frame (ratio=%.4f)", r)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > d.MaxUnderexposedRatio {
		return fmt.Errorf("quality gate failed: underexposed frame (ratio=%.4f)", r)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var _ port.DefectDetector = (*CameraDetector)(nil)

package pdfproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailroom-dev/mailroom/internal/common"
)

func TestValidateAcceptsPDFPrefix(t *testing.T) {
	p := NewProcessor(Config{}, nil)
	assert.NoError(t, p.Validate([]byte("%PDF-1.7\nrest of file")))
}

func TestValidateRejectsNonPDF(t *testing.T) {
	p := NewProcessor(Config{}, nil)
	err := p.Validate([]byte("PK\x03\x04 this is a zip"))
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.Contains(t, err.Error(), "invalid PDF file format")
}

func TestValidateRejectsEmpty(t *testing.T) {
	p := NewProcessor(Config{}, nil)
	assert.Error(t, p.Validate(nil))
}

func TestValidateSizeCheckedBeforeMagic(t *testing.T) {
	p := NewProcessor(Config{MaxFileSize: 8}, nil)
	// oversize junk must report the size, not the format
	err := p.Validate([]byte("definitely not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestValidateOversizePDF(t *testing.T) {
	p := NewProcessor(Config{MaxFileSize: 4}, nil)
	err := p.Validate([]byte("%PDF-1.7"))
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func grayLevel(t *testing.T, img image.Image) (min, max uint32) {
	t.Helper()
	b := img.Bounds()
	min = 1 << 17
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r < min {
				min = r
			}
			if r > max {
				max = r
			}
		}
	}
	return min, max
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.Set(x, y, color.RGBA{60, 60, 60, 255})
			} else {
				img.Set(x, y, color.RGBA{200, 200, 200, 255})
			}
		}
	}
	return img
}

func TestEnhanceIdentityFactorsOnlyGrayscale(t *testing.T) {
	p := NewProcessor(Config{Contrast: 1.0, Sharpness: 1.0, Brightness: 1.0}, nil)
	out := p.Enhance(testImage())

	// with identity factors the only transform is grayscale
	min, max := grayLevel(t, out)
	assert.InDelta(t, 60*257, int(min), 300)
	assert.InDelta(t, 200*257, int(max), 300)
}

func TestEnhanceContrastWidensRange(t *testing.T) {
	base := NewProcessor(Config{Contrast: 1.0, Sharpness: 1.0, Brightness: 1.0}, nil)
	boosted := NewProcessor(Config{Contrast: 2.0, Sharpness: 1.0, Brightness: 1.0}, nil)

	bMin, bMax := grayLevel(t, base.Enhance(testImage()))
	cMin, cMax := grayLevel(t, boosted.Enhance(testImage()))

	assert.Less(t, cMin, bMin)
	assert.Greater(t, cMax, bMax)
}

func TestEnhanceBrightnessLifts(t *testing.T) {
	base := NewProcessor(Config{Contrast: 1.0, Sharpness: 1.0, Brightness: 1.0}, nil)
	bright := NewProcessor(Config{Contrast: 1.0, Sharpness: 1.0, Brightness: 1.3}, nil)

	_, bMax := grayLevel(t, base.Enhance(testImage()))
	_, brMax := grayLevel(t, bright.Enhance(testImage()))
	assert.Greater(t, brMax, bMax)
}

func TestClampPct(t *testing.T) {
	assert.Equal(t, 100.0, clampPct(250))
	assert.Equal(t, -100.0, clampPct(-250))
	assert.Equal(t, 37.5, clampPct(37.5))
}

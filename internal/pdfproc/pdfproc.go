// Package pdfproc validates uploaded PDFs and turns them into
// OCR-ready page images.
package pdfproc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/mailroom-dev/mailroom/constants"
	"github.com/mailroom-dev/mailroom/internal/common"
)

// Config holds rasterization and enhancement settings. Enhancement
// factors are multipliers; 1.0 is the identity for each.
type Config struct {
	DPI         int
	MaxFileSize int64
	Contrast    float64
	Sharpness   float64
	Brightness  float64
}

type Processor struct {
	cfg    Config
	logger *slog.Logger
}

func NewProcessor(cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	return &Processor{cfg: cfg, logger: logger}
}

// Validate fails closed on uploads that exceed the size ceiling or do
// not begin with the PDF magic prefix. It does not parse the document
// body; a corrupt PDF surfaces later as a rasterization error.
func (p *Processor) Validate(data []byte) error {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return common.ValidationError("file too large: %.2fMB (max: %.2fMB)",
			float64(len(data))/(1024*1024), float64(p.cfg.MaxFileSize)/(1024*1024))
	}
	if !bytes.HasPrefix(data, []byte(constants.PDFMagic)) {
		return common.ValidationError("invalid PDF file format")
	}
	return nil
}

// Rasterize renders one enhanced PNG per page at the configured DPI.
// Page order matches document order.
func (p *Processor) Rasterize(ctx context.Context, data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			p.logger.Warn("pdf.close_error", "error", cerr)
		}
	}()

	n := doc.NumPage()
	p.logger.Info("pdf.rasterize.start", "pages", n, "dpi", p.cfg.DPI)

	pages := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(p.cfg.DPI))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		enhanced := p.Enhance(img)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, enhanced, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		pages = append(pages, buf.Bytes())
		p.logger.Debug("pdf.rasterize.page", "page", i+1, "bytes", buf.Len())
	}

	p.logger.Info("pdf.rasterize.ok", "pages", len(pages))
	return pages, nil
}

// Enhance converts to grayscale and applies the configured contrast,
// sharpness, and brightness multipliers. It is best-effort: factors at
// or below the identity are skipped, and the worst outcome is the
// unenhanced grayscale image.
func (p *Processor) Enhance(src image.Image) image.Image {
	img := imaging.Grayscale(src)

	// imaging adjustments take percentages (-100..100) and sigmas,
	// not PIL-style multipliers; convert so 1.0 stays the identity.
	if pct := clampPct((p.cfg.Contrast - 1.0) * 50); pct != 0 {
		img = imaging.AdjustContrast(img, pct)
	}
	if sigma := p.cfg.Sharpness - 1.0; sigma > 0 {
		img = imaging.Sharpen(img, sigma)
	}
	if pct := clampPct((p.cfg.Brightness - 1.0) * 100); pct != 0 {
		img = imaging.AdjustBrightness(img, pct)
	}
	return img
}

func clampPct(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}

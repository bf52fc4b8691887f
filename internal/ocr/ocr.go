// Package ocr extracts text from rasterized letter pages. Exactly one
// backend serves a process: the Azure document-text API, or a local
// tesseract binary. Selection happens once at startup; a misconfigured
// cloud backend falls back to tesseract for the process lifetime.
package ocr

import (
	"context"
	"log/slog"
)

// PageExtractor is the capability a single OCR backend provides.
type PageExtractor interface {
	// ExtractPage returns the recognized text for one PNG page image.
	ExtractPage(ctx context.Context, png []byte) (string, error)

	// Available reports whether the backend looks usable from its
	// configuration alone. It never issues a billable request.
	Available() bool

	// Name identifies the backend in logs and health output.
	Name() string
}

// Config selects and parameterizes the backend.
type Config struct {
	Provider string // "azure" | "tesseract"

	AzureEndpoint string
	AzureKey      string

	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	PSM       int
	OEM       int
}

// Select constructs the backend for this process. An azure provider
// without endpoint or key logs the problem and falls back to tesseract;
// there is no per-call fallback after this point.
func Select(cfg Config, logger *slog.Logger) PageExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Provider == "azure" {
		az, err := NewAzureExtractor(cfg.AzureEndpoint, cfg.AzureKey, logger)
		if err == nil {
			logger.Info("ocr.backend.selected", "backend", az.Name())
			return az
		}
		logger.Error("ocr.azure.init_failed", "error", err)
		logger.Warn("ocr.backend.fallback", "to", "tesseract")
	}
	t := NewTesseractExtractor(cfg, logger)
	logger.Info("ocr.backend.selected", "backend", t.Name())
	return t
}

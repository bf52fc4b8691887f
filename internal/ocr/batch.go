package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ErrorPlaceholder replaces a page whose extraction raised; the batch
// keeps going and the marker count stays aligned with the page count.
const ErrorPlaceholder = "[ERROR: Could not extract text]"

// Batch runs page extraction over a whole document.
type Batch struct {
	Extractor PageExtractor
	Logger    *slog.Logger
}

func NewBatch(extractor PageExtractor, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{Extractor: extractor, Logger: logger}
}

// Extract OCRs pages in order and concatenates them with
// "--- PAGE n ---" markers. A failed page contributes the error
// placeholder for that page only; a blank page is skipped with a
// warning. The result is empty only when no page produced text.
func (b *Batch) Extract(ctx context.Context, pages [][]byte) string {
	sections := make([]string, 0, len(pages))
	for i, png := range pages {
		b.Logger.Info("ocr.page.start", "page", i+1, "total", len(pages), "backend", b.Extractor.Name())

		text, err := b.Extractor.ExtractPage(ctx, png)
		if err != nil {
			b.Logger.Error("ocr.page.failed", "page", i+1, "error", err)
			sections = append(sections, fmt.Sprintf("--- PAGE %d ---\n%s", i+1, ErrorPlaceholder))
			continue
		}
		if strings.TrimSpace(text) == "" {
			b.Logger.Warn("ocr.page.empty", "page", i+1)
			continue
		}
		sections = append(sections, fmt.Sprintf("--- PAGE %d ---\n%s", i+1, text))
	}

	combined := strings.Join(sections, "\n\n")
	b.Logger.Info("ocr.batch.ok", "pages", len(pages), "sections", len(sections), "chars", len(combined))
	return combined
}

// mailroom-batch pushes local PDF letters through the same pipeline the
// server runs, without HTTP. Useful for backfilling a directory of
// scans into the sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mailroom-dev/mailroom/internal/common"
	"github.com/mailroom-dev/mailroom/internal/llm"
	"github.com/mailroom-dev/mailroom/internal/ocr"
	"github.com/mailroom-dev/mailroom/internal/pdfproc"
	"github.com/mailroom-dev/mailroom/internal/pipeline"
	"github.com/mailroom-dev/mailroom/internal/store"
)

func main() {
	var (
		dir      = flag.String("dir", "", "directory of PDFs to process (alternative to file args)")
		csvPath  = flag.String("csv", "", "override CSV_PATH")
		xlsxPath = flag.String("xlsx", "", "override XLSX_PATH")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *csvPath != "" {
		cfg.Storage.CSVPath = *csvPath
	}
	if *xlsxPath != "" {
		cfg.Storage.XLSXPath = *xlsxPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config invalid:", err)
		os.Exit(1)
	}

	paths := flag.Args()
	if *dir != "" {
		matches, err := filepath.Glob(filepath.Join(*dir, "*.pdf"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "glob:", err)
			os.Exit(1)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: mailroom-batch [-dir DIR] [-csv PATH] [-xlsx PATH] [file.pdf ...]")
		os.Exit(2)
	}

	pdf := pdfproc.NewProcessor(pdfproc.Config{
		DPI:         cfg.PDF.DPI,
		MaxFileSize: cfg.PDF.MaxFileSize,
		Contrast:    cfg.PDF.Contrast,
		Sharpness:   cfg.PDF.Sharpness,
		Brightness:  cfg.PDF.Brightness,
	}, logger)
	extractor := ocr.Select(ocr.Config{
		Provider:      cfg.OCR.Provider,
		AzureEndpoint: cfg.OCR.AzureEndpoint,
		AzureKey:      cfg.OCR.AzureKey,
		Tesseract:     cfg.OCR.Tesseract,
		PSM:           cfg.OCR.PSM,
		OEM:           cfg.OCR.OEM,
	}, logger)
	llmClient, err := llm.NewClient(llm.Config{
		APIKey:                cfg.LLM.APIKey,
		Model:                 cfg.LLM.Model,
		TemperatureExtraction: cfg.LLM.TemperatureExtraction,
		TemperatureSummary:    cfg.LLM.TemperatureSummary,
		MaxRetries:            cfg.LLM.MaxRetries,
		Timeout:               cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "llm init:", err)
		os.Exit(1)
	}
	st, err := store.NewStore(cfg.Storage.CSVPath, cfg.Storage.XLSXPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store init:", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(pdf, ocr.NewBatch(extractor, logger), llmClient, llmClient, st, logger)

	ctx := context.Background()
	uploads := make([]pipeline.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", p, err)
			data = nil
		}
		uploads = append(uploads, pipeline.Upload{Name: filepath.Base(p), Data: data})
	}

	summary := orch.ProcessBatch(ctx, uploads, func(event any) {
		switch e := event.(type) {
		case pipeline.ProgressEvent:
			fmt.Printf("[%d/%d] %s\n", e.Current, e.Total, e.Filename)
		case pipeline.ResultEvent:
			if e.Result.Success {
				fmt.Printf("  ok (%.2fs)\n", e.Result.ProcessingTime)
			} else {
				fmt.Printf("  FAILED: %s\n", strings.TrimSpace(*e.Result.Error))
			}
		}
	})

	if n, err := st.Count(); err == nil {
		fmt.Printf("done: %d processed, %d failed, %d rows in %s\n",
			summary.Processed, summary.Failed, n, cfg.Storage.CSVPath)
	} else {
		fmt.Printf("done: %d processed, %d failed\n", summary.Processed, summary.Failed)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

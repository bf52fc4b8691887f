package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mailroom-dev/mailroom/internal/common"
	"github.com/mailroom-dev/mailroom/internal/llm"
	"github.com/mailroom-dev/mailroom/internal/ocr"
	"github.com/mailroom-dev/mailroom/internal/pdfproc"
	"github.com/mailroom-dev/mailroom/internal/pipeline"
	"github.com/mailroom-dev/mailroom/internal/server"
	"github.com/mailroom-dev/mailroom/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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
	batch := ocr.NewBatch(extractor, logger)

	llmClient, err := llm.NewClient(llm.Config{
		APIKey:                cfg.LLM.APIKey,
		Model:                 cfg.LLM.Model,
		TemperatureExtraction: cfg.LLM.TemperatureExtraction,
		TemperatureSummary:    cfg.LLM.TemperatureSummary,
		MaxRetries:            cfg.LLM.MaxRetries,
		Timeout:               cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("llm init failed", "error", err)
		os.Exit(1)
	}

	st, err := store.NewStore(cfg.Storage.CSVPath, cfg.Storage.XLSXPath, logger)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(pdf, batch, llmClient, llmClient, st, logger)
	srv := server.New(orch, extractor, llmClient, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(cfg.Server.CORSOrigins),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Package pipeline sequences one document through
// validate -> rasterize -> ocr -> extract -> summarize -> store, and a
// batch through its documents strictly in submission order. Retries
// live inside the OCR and LLM stages; the orchestrator never retries
// across a stage boundary, and a document failure never aborts the
// batch.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mailroom-dev/mailroom/constants"
	"github.com/mailroom-dev/mailroom/internal/common"
	"github.com/mailroom-dev/mailroom/internal/llm"
	"github.com/mailroom-dev/mailroom/internal/store"
)

// Upload is one submitted file: raw bytes plus the client-supplied
// name. Owned by the orchestrator for the duration of one request.
type Upload struct {
	Name string
	Data []byte
}

// Stage seams; the concrete types are pdfproc.Processor, ocr.Batch,
// llm.Client, and store.Store.
type PDFProcessor interface {
	Validate(data []byte) error
	Rasterize(ctx context.Context, data []byte) ([][]byte, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, pages [][]byte) string
}

type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (llm.Fields, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type RecordStore interface {
	Append(ctx context.Context, rec store.Record) error
}

type Orchestrator struct {
	PDF     PDFProcessor
	OCR     TextExtractor
	Fields  FieldExtractor
	Summary Summarizer
	Store   RecordStore
	Logger  *slog.Logger
}

func NewOrchestrator(pdf PDFProcessor, ocr TextExtractor, fields FieldExtractor, summary Summarizer, st RecordStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{PDF: pdf, OCR: ocr, Fields: fields, Summary: summary, Store: st, Logger: logger}
}

// ProcessFile runs one document to completion or terminal failure.
// There is no cancellation mid-document beyond ctx plumbed into the
// stage calls.
func (o *Orchestrator) ProcessFile(ctx context.Context, name string, data []byte) FileProcessResult {
	start := time.Now()
	log := o.Logger.With("filename", name)
	log.Info("pipeline.file.start", "stage", constants.StageReceived, "bytes", len(data))

	fail := func(err error) FileProcessResult {
		msg := err.Error()
		log.Error("pipeline.file.failed",
			"stage", constants.StageFailed,
			"error", msg,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return FileProcessResult{
			Filename:       name,
			Success:        false,
			Error:          &msg,
			ProcessingTime: time.Since(start).Seconds(),
		}
	}

	if !constants.IsAllowedFilename(name) {
		return fail(common.ValidationError("only PDF files are allowed"))
	}
	if err := o.PDF.Validate(data); err != nil {
		return fail(err)
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageValidated)

	pages, err := o.PDF.Rasterize(ctx, data)
	if err != nil {
		return fail(common.WrapError(err, "PDF processing failed"))
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageRasterized, "pages", len(pages))

	rawText := o.OCR.Extract(ctx, pages)
	if len(strings.TrimSpace(rawText)) < constants.MinTextLength {
		return fail(common.ValidationError("no text could be extracted from the document"))
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageOCR, "chars", len(rawText))

	fields, err := o.Fields.ExtractFields(ctx, rawText)
	if err != nil {
		return fail(err)
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageExtracted)

	summary, err := o.Summary.Summarize(ctx, rawText)
	if err != nil {
		return fail(err)
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageSummarized)

	rec := store.NewRecord(fields, summary, rawText)
	if err := o.Store.Append(ctx, rec); err != nil {
		return fail(err)
	}
	log.Debug("pipeline.file.stage", "stage", constants.StageStored)
	log.Info("pipeline.file.ok",
		"stage", constants.StageSucceeded,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return FileProcessResult{
		Filename:       name,
		Success:        true,
		Data:           &rec,
		ProcessingTime: time.Since(start).Seconds(),
	}
}

// ProcessBatch walks the uploads sequentially, emitting a progress
// event before each document, a result event after it, and one
// complete event at the end. emit is called from this goroutine only.
func (o *Orchestrator) ProcessBatch(ctx context.Context, uploads []Upload, emit func(event any)) BatchSummary {
	total := len(uploads)
	summary := BatchSummary{TotalFiles: total, Results: make([]FileProcessResult, 0, total)}

	for i, up := range uploads {
		emit(ProgressEvent{
			Type:       "progress",
			Current:    i + 1,
			Total:      total,
			Filename:   up.Name,
			Percentage: i * 100 / total,
		})

		res := o.ProcessFile(ctx, up.Name, up.Data)
		summary.Results = append(summary.Results, res)
		if res.Success {
			summary.Processed++
		} else {
			summary.Failed++
		}

		emit(ResultEvent{Type: "result", Result: res})
	}

	o.Logger.Info("pipeline.batch.complete",
		"total", total, "processed", summary.Processed, "failed", summary.Failed)
	emit(CompleteEvent{Type: "complete", Summary: summary})
	return summary
}

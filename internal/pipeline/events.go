package pipeline

import "github.com/mailroom-dev/mailroom/internal/store"

// FileProcessResult is the per-document outcome, streamed to the caller
// and folded into the batch summary. Immutable once created.
type FileProcessResult struct {
	Filename       string        `json:"filename"`
	Success        bool          `json:"success"`
	Data           *store.Record `json:"data"`
	Error          *string       `json:"error"`
	ProcessingTime float64       `json:"processing_time"` // seconds
}

// BatchSummary aggregates a finished batch.
type BatchSummary struct {
	TotalFiles int                 `json:"total_files"`
	Processed  int                 `json:"processed"`
	Failed     int                 `json:"failed"`
	Results    []FileProcessResult `json:"results"`
}

// Stream event shapes. One JSON value per NDJSON line.
type ProgressEvent struct {
	Type       string `json:"type"` // "progress"
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Filename   string `json:"filename"`
	Percentage int    `json:"percentage"`
}

type ResultEvent struct {
	Type   string            `json:"type"` // "result"
	Result FileProcessResult `json:"result"`
}

type CompleteEvent struct {
	Type    string       `json:"type"` // "complete"
	Summary BatchSummary `json:"summary"`
}

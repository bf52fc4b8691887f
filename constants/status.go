package constants

// Stage is the canonical name for a document's position in the intake
// pipeline. A document moves through the stages in order, or to
// StageFailed from any of them.
type Stage string

// Stable values (these exact strings appear in logs and error messages).
const (
	StageReceived   Stage = "RECEIVED"
	StageValidated  Stage = "VALIDATED"
	StageRasterized Stage = "RASTERIZED"
	StageOCR        Stage = "OCR_OK"
	StageExtracted  Stage = "EXTRACTED"
	StageSummarized Stage = "SUMMARIZED"
	StageStored     Stage = "STORED"
	StageSucceeded  Stage = "SUCCEEDED"
	StageFailed     Stage = "FAILED"
)

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TesseractExtractor shells out to a local tesseract binary with a
// fixed recognition mode.
type TesseractExtractor struct {
	bin    string
	psm    int
	oem    int
	runner Runner
	logger *slog.Logger
}

func NewTesseractExtractor(cfg Config, logger *slog.Logger) *TesseractExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	bin := cfg.Tesseract
	if bin == "" {
		bin = "tesseract"
	}
	psm := cfg.PSM
	if psm <= 0 {
		psm = 6
	}
	oem := cfg.OEM
	if oem <= 0 {
		oem = 3
	}
	return &TesseractExtractor{bin: bin, psm: psm, oem: oem, runner: execRunner{}, logger: logger}
}

func (t *TesseractExtractor) Name() string { return "tesseract" }

func (t *TesseractExtractor) Available() bool {
	_, err := exec.LookPath(t.bin)
	return err == nil
}

// ExtractPage writes the page to a temp file and runs
// tesseract <file> stdout -l eng --psm N --oem N.
func (t *TesseractExtractor) ExtractPage(ctx context.Context, png []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "mailroom-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			t.logger.Warn("ocr.tesseract.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	in := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(in, png, 0o600); err != nil {
		return "", err
	}

	args := []string{
		in, "stdout",
		"-l", "eng",
		"--psm", fmt.Sprintf("%d", t.psm),
		"--oem", fmt.Sprintf("%d", t.oem),
	}
	out, errb, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}

// Package store appends processed letters to a CSV file, optionally
// mirrored to an XLSX workbook. Concurrent writers from different
// requests (or processes) are serialized by an exclusive file lock held
// only for the read-append-rewrite critical section.
package store

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"github.com/mailroom-dev/mailroom/constants"
	"github.com/mailroom-dev/mailroom/internal/common"
)

const sheetName = "Letters"

type Store struct {
	csvPath  string
	xlsxPath string // empty disables the mirror

	// mu serializes writers inside this process; the flock only excludes
	// other processes (a second Lock() on the same instance returns
	// immediately instead of blocking).
	mu     sync.Mutex
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore creates the CSV (and the XLSX mirror when configured) with
// the header row if absent, including missing parent directories.
func NewStore(csvPath, xlsxPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		csvPath:  csvPath,
		xlsxPath: xlsxPath,
		lock:     flock.New(csvPath + ".lock"),
		logger:   logger,
	}
	if err := s.ensureCSV(); err != nil {
		return nil, common.StorageError("init csv: %v", err)
	}
	if xlsxPath != "" {
		if err := s.ensureXLSX(); err != nil {
			return nil, common.StorageError("init xlsx: %v", err)
		}
		logger.Info("store.init", "csv", csvPath, "xlsx", xlsxPath)
	} else {
		logger.Info("store.init", "csv", csvPath)
	}
	return s, nil
}

// Append validates the record, then commits it to the CSV under the
// exclusive lock. When a mirror is configured the XLSX append runs
// after the CSV commit; a mirror failure is returned as a StorageError
// but the CSV row has already been written. The two sinks have no
// two-phase atomicity.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	start := time.Now()

	s.mu.Lock()
	if err := s.lock.Lock(); err != nil {
		s.mu.Unlock()
		return common.StorageError("acquire lock: %v", err)
	}
	err := s.appendCSVLocked(rec)
	if uerr := s.lock.Unlock(); uerr != nil {
		s.logger.Warn("store.unlock_failed", "error", uerr)
	}
	s.mu.Unlock()
	if err != nil {
		return common.StorageError("csv append: %v", err)
	}

	s.logger.Info("store.append.ok",
		"doc_number", rec.DocNumber,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if s.xlsxPath != "" {
		if err := s.appendXLSX(rec); err != nil {
			s.logger.Error("store.mirror.failed", "error", err)
			return common.StorageError("xlsx mirror append: %v", err)
		}
		s.logger.Info("store.mirror.ok", "doc_number", rec.DocNumber)
	}
	return nil
}

// appendCSVLocked reads the full file, appends one row, and rewrites it
// from the top. Rewriting rather than seeking to the end keeps the file
// well-formed even if an earlier writer died mid-row.
func (s *Store) appendCSVLocked(rec Record) error {
	f, err := os.OpenFile(s.csvPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("store.csv.close_failed", "error", cerr)
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil && err != io.EOF {
		return err
	}
	if len(rows) == 0 {
		rows = append(rows, constants.Columns)
	}
	rows = append(rows, rec.row())

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (s *Store) appendXLSX(rec Record) error {
	f, err := excelize.OpenFile(s.xlsxPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("store.xlsx.close_failed", "error", cerr)
		}
	}()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return err
	}
	next := len(rows) + 1
	for i, v := range rec.row() {
		cell, err := excelize.CoordinatesToCellName(i+1, next)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return f.Save()
}

// Count returns the number of data rows (header excluded).
func (s *Store) Count() (int, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

func (s *Store) ensureCSV() error {
	if _, err := os.Stat(s.csvPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.csvPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.csvPath)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(constants.Columns); err != nil {
		_ = f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	s.logger.Info("store.csv.created", "path", s.csvPath)
	return f.Close()
}

func (s *Store) ensureXLSX() error {
	if _, err := os.Stat(s.xlsxPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.xlsxPath), 0o755); err != nil {
		return err
	}
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	for i, h := range constants.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	// widen the text-heavy columns
	_ = f.SetColWidth(sheetName, "I", "I", 48)
	_ = f.SetColWidth(sheetName, "J", "J", 60)
	if err := f.SaveAs(s.xlsxPath); err != nil {
		return err
	}
	s.logger.Info("store.xlsx.created", "path", s.xlsxPath)
	return nil
}

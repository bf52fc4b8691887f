package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mailroom-dev/mailroom/internal/pipeline"
)

// handleProcess accepts multipart uploads under the "files" field and
// streams NDJSON progress/result/complete events while the batch runs.
// Documents are processed one at a time; each event is flushed so the
// caller sees progress incrementally.
func (s *Server) handleProcess(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
		return
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}
	s.logger.Info("server.process.start", "files", len(fhs))

	uploads := make([]pipeline.Upload, 0, len(fhs))
	for _, fh := range fhs {
		data, err := readUpload(fh)
		if err != nil {
			// keep the slot so the batch still reports this filename;
			// the pipeline fails it with a readable message
			s.logger.Error("server.process.read_failed", "filename", fh.Filename, "error", err)
			data = nil
		}
		uploads = append(uploads, pipeline.Upload{Name: fh.Filename, Data: data})
	}

	h := c.Writer.Header()
	h.Set("Content-Type", "application/x-ndjson; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	emit := func(event any) {
		if err := enc.Encode(event); err != nil {
			s.logger.Warn("server.process.write_failed", "error", err)
			return
		}
		c.Writer.Flush()
	}

	summary := s.orch.ProcessBatch(c.Request.Context(), uploads, emit)
	s.logger.Info("server.process.done",
		"total", summary.TotalFiles, "processed", summary.Processed, "failed", summary.Failed)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"viyarschedule/models"
	"viyarschedule/services/importer"
	"viyarschedule/services/intermediate"
	"viyarschedule/services/roster"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// syncImportTimeout bounds a synchronous import, which outlives the request
// once started.
const syncImportTimeout = 15 * time.Minute

// importContext detaches an import from the client connection: a client that
// disconnects must not leave a batch half written.
func importContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), syncImportTimeout)
}

// ImportQueue hands an import to the background worker.
type ImportQueue interface {
	Enqueue(ctx context.Context, payload models.ImportTaskPayload) error
}

// ImportHandler serves the upload and intermediate-text endpoints.
type ImportHandler struct {
	imp       *importer.Importer
	queue     ImportQueue
	uploadDir string
	maxFiles  int
}

// NewImportHandler creates an ImportHandler. queue may be nil, which
// disables ?async=true.
func NewImportHandler(imp *importer.Importer, queue ImportQueue, uploadDir string, maxFiles int) *ImportHandler {
	if maxFiles <= 0 {
		maxFiles = 10
	}
	return &ImportHandler{imp: imp, queue: queue, uploadDir: uploadDir, maxFiles: maxFiles}
}

// UploadHandler handles POST /upload with multipart "files".
func (h *ImportHandler) UploadHandler(c *gin.Context) {
	logger := getLogger(c)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded", "details": err.Error()})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded"})
		return
	}
	if len(headers) > h.maxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("At most %d files per upload", h.maxFiles)})
		return
	}

	files := make([]importer.SourceFile, 0, len(headers))
	valid := 0
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			logger.Warn("upload unreadable", zap.String("file", fh.Filename), zap.Error(err))
			continue
		}
		name := filepath.Base(fh.Filename)
		if roster.IsSpreadsheet(name) {
			valid++
		}
		files = append(files, importer.SourceFile{Name: name, Data: data})
	}
	if valid == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No valid files found for processing."})
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, files)
		return
	}

	ctx, cancel := importContext(c)
	defer cancel()
	report, err := h.imp.ImportFiles(ctx, files)
	if err != nil {
		respondError(c, err, "")
		return
	}
	status := http.StatusOK
	if !anyFileOK(report) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, report)
}

func (h *ImportHandler) enqueue(c *gin.Context, files []importer.SourceFile) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Queued imports are not configured"})
		return
	}
	batchID := uuid.NewString()
	dir := filepath.Join(h.uploadDir, batchID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, err, "")
		return
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			respondError(c, err, "")
			return
		}
		paths = append(paths, p)
	}
	if err := h.queue.Enqueue(c.Request.Context(), models.ImportTaskPayload{BatchID: batchID, Paths: paths}); err != nil {
		respondError(c, err, "")
		return
	}
	getLogger(c).Info("import queued", zap.String("batch", batchID), zap.Int("files", len(paths)))
	c.JSON(http.StatusAccepted, gin.H{"batchId": batchID, "files": len(paths)})
}

// ParseTextHandler handles POST /parse-txt: the body is the labeled text form
// and the response is its JSON document. With ?import=true the batch is also
// imported.
func (h *ImportHandler) ParseTextHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request body must contain the roster text"})
		return
	}
	batch, err := intermediate.DecodeText(bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid roster text", "details": err.Error()})
		return
	}
	if c.Query("import") != "true" {
		c.JSON(http.StatusOK, batch)
		return
	}
	ctx, cancel := importContext(c)
	defer cancel()
	report, err := h.imp.ImportRoster(ctx, "parse-txt", batch)
	if err != nil && report == nil {
		respondError(c, err, "")
		return
	}
	status := http.StatusOK
	if !anyFileOK(report) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"employees": batch.Employees, "report": report})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func anyFileOK(report *models.ImportReport) bool {
	for _, f := range report.Files {
		if f.OK {
			return true
		}
	}
	return false
}

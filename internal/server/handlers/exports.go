package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"

	"github.com/maruel/userdb/internal/export"
	"github.com/maruel/userdb/internal/server/dto"
)

// ExportFileHandler serves produced export files.
type ExportFileHandler struct {
	exports *export.Writer
}

// NewExportFileHandler creates a new export file handler.
func NewExportFileHandler(exports *export.Writer) *ExportFileHandler {
	return &ExportFileHandler{exports: exports}
}

// ServeExport streams /exports/{name} as an attachment.
func (h *ExportFileHandler) ServeExport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, err := h.exports.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrInvalidName):
			writeErrorResponse(w, dto.InvalidParameter("name", name))
		case errors.Is(err, fs.ErrNotExist):
			writeErrorResponse(w, dto.NotFound("Export"))
		default:
			slog.ErrorContext(r.Context(), "Failed to open export", "name", name, "err", err)
			writeErrorResponse(w, dto.Storage(err))
		}
		return
	}
	defer func() { _ = f.Close() }()
	fi, err := f.Stat()
	if err != nil {
		writeErrorResponse(w, dto.Storage(err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

const summaryFile = "summary.txt"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/archive.zip", h.download)
	r.Get("/{file}", h.file)
}

func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	content, err := h.svc.Render(name)
	if errors.Is(err, export.ErrUnknownFile) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if _, err := io.WriteString(w, content); err != nil {
		logger.FromContext(r.Context()).Error("failed to write export", "file", name, "error", err)
	}
}

// download bundles every export file and the text summary into one zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, err := os.MkdirTemp("", "finboard-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	res, err := h.svc.Export(r.Context(), tmpDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := h.svc.GenerateSummary(res)
	if err := os.WriteFile(filepath.Join(tmpDir, summaryFile), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"finboard_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	names := make([]string, 0, len(res.Items)+1)
	for _, item := range res.Items {
		names = append(names, item.Name)
	}

	names = append(names, summaryFile)

	for _, name := range names {
		if err := addFile(zipWriter, tmpDir, name); err != nil {
			logger.FromContext(r.Context()).Error("failed to create zip", "error", err)
			return
		}
	}
}

func addFile(zw *zip.Writer, dir, name string) error {
	zf, err := zw.Create(name)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(zf, f)

	return err
}

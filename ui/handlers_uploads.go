package ui

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
)

const maxFilesPerUpload = 10

// allowedUploads maps accepted content types to the extension files are
// stored under.
var allowedUploads = map[string]string{
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"image/gif":          "gif",
	"application/pdf":    "pdf",
	"text/plain":         "txt",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.ms-excel": "xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := a.config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit*maxFilesPerUpload+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		a.writeError(w, r, errors.InvalidInput("invalid multipart upload: "+err.Error()))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		a.writeError(w, r, errors.InvalidInput("no files uploaded"))
		return
	}
	if len(headers) > maxFilesPerUpload {
		a.writeError(w, r, errors.InvalidInput(fmt.Sprintf("at most %d files per upload", maxFilesPerUpload)))
		return
	}

	// Check every file before storing any of them.
	exts := make([]string, len(headers))
	for i, fh := range headers {
		if fh.Size > limit {
			a.writeError(w, r, errors.InvalidInput(fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, limit>>20)))
			return
		}
		ext, ok := uploadExtension(fh.Header.Get("Content-Type"))
		if !ok {
			a.writeError(w, r, errors.InvalidInput(fmt.Sprintf("%s has an unsupported file type", fh.Filename)))
			return
		}
		exts[i] = ext
	}

	urls := make([]string, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			a.writeError(w, r, errors.Wrapf(err, "failed to read %s", fh.Filename))
			return
		}
		name := core.NewFileName(exts[i])
		_, err = a.deps.Files.Save(r.Context(), name, f)
		_ = f.Close()
		if err != nil {
			a.writeError(w, r, errors.Wrapf(err, "failed to store %s", fh.Filename))
			return
		}
		a.logger.Info("[Uploads] stored %s as %s (%d bytes)", fh.Filename, name, fh.Size)
		urls = append(urls, a.config.FilesPath+"/"+name)
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Files: urls})
}

func uploadExtension(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ext, ok := allowedUploads[strings.ToLower(mediaType)]
	return ext, ok
}

func (a *App) handleServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := a.deps.Files.Open(r.Context(), name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, f); err != nil {
		a.logger.Warn("[Uploads] failed to send %s: %v", name, err)
	}
}

package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/services"
)

const maxUploadSize = 10 << 20 // 10MB

type ImageUploader interface {
	UploadImage(ctx context.Context, header *multipart.FileHeader) (string, error)
}

type UploadResponse struct {
	Status int    `json:"status"`
	URL    string `json:"url"`
}

type UploadHandler struct {
	uploader ImageUploader
	timeout  time.Duration
}

func NewUploadHandler(uploader ImageUploader, timeout time.Duration) *UploadHandler {
	return &UploadHandler{uploader: uploader, timeout: timeout}
}

// Upload stores the multipart "file" field and returns its URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, services.ErrInvalidRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, services.ErrInvalidRequest)
		return
	}
	file.Close()

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	url, err := h.uploader.UploadImage(ctx, header)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{Status: http.StatusOK, URL: url})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/storage"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

type UploadHandler struct {
	store storage.ObjectStore
	log   *zap.Logger
}

func NewUploadHandler(store storage.ObjectStore, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

type UploadResult struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

type UploadResponse struct {
	Uploaded []UploadResult `json:"uploaded"`
	Failed   []UploadResult `json:"failed"`
}

// Upload accepts multipart form files under the "images" field. Each file
// is stored independently: one failed upload is reported in the response
// and does not abort the rest.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		http.Error(w, "No files provided", http.StatusBadRequest)
		return
	}

	var resp UploadResponse
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			resp.Failed = append(resp.Failed, UploadResult{Name: header.Filename, Error: "could not read file"})
			continue
		}

		key := fmt.Sprintf("listings/%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], filepath.Ext(header.Filename))
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := h.store.Upload(r.Context(), key, file, contentType)
		file.Close()
		if err != nil {
			h.log.Warn("image upload failed",
				zap.String("file", header.Filename),
				zap.Error(err))
			resp.Failed = append(resp.Failed, UploadResult{Name: header.Filename, Error: "upload failed"})
			continue
		}

		resp.Uploaded = append(resp.Uploaded, UploadResult{Name: header.Filename, URL: url})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

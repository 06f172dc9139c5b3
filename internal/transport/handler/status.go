package handler

import (
	"context"
	"net/http"

	"ainews/internal/repository"
	"ainews/internal/transport/response"
)

// BlobStatser reports storage statistics for synthesized audio.
type BlobStatser interface {
	Stats(ctx context.Context) (*repository.BlobStats, error)
}

// Status reports service health details, including audio storage usage.
type Status struct {
	blobs   BlobStatser
	version string
}

func NewStatus(blobs BlobStatser, version string) *Status {
	return &Status{blobs: blobs, version: version}
}

type statusBody struct {
	Status       string                `json:"status"`
	Version      string                `json:"version"`
	AudioStorage *repository.BlobStats `json:"audio_storage,omitempty"`
	StorageError string                `json:"storage_error,omitempty"`
}

func (h *Status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := statusBody{
		Status:  "ok",
		Version: h.version,
	}

	stats, err := h.blobs.Stats(r.Context())
	if err != nil {
		body.StorageError = err.Error()
	} else {
		body.AudioStorage = stats
	}

	response.WriteJSON(w, http.StatusOK, body)
}

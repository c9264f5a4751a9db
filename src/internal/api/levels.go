package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blockdude2/level-maker/src/internal/errors"
	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

// GetLevels returns summaries of all stored levels.
// GET /api/levels
func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List()
	if err != nil {
		log.Errorf("Failed to list levels: %v", err)
		writeStoreError(w, err, false)
		return
	}

	writeJSONData(w, summaries)
}

// GetLevel returns the stored level file verbatim.
// GET /api/levels/{id}
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	id, err := levels.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteInvalidRequest(w, errorMessage(err))
		return
	}

	level, err := h.store.Get(id)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			log.Errorf("Failed to read level %d: %v", id, err)
		}
		writeStoreError(w, err, false)
		return
	}

	etag := `"` + level.Checksum + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(level.Data); err != nil {
		log.Warnf("Failed to write %s: %v", level.Filename, err)
	}
}

// SaveLevel creates or overwrites the level file matching the document id.
// POST /api/levels
func (h *Handler) SaveLevel(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			WriteInvalidRequest(w, fmt.Sprintf("level document exceeds %d bytes", maxErr.Limit))
			return
		}
		WriteInvalidRequest(w, "Failed to read request body: "+err.Error())
		return
	}

	result, err := h.store.Save(body)
	if err != nil {
		log.Warnf("Failed to save level: %v", err)
		writeStoreError(w, err, true)
		return
	}

	log.Infof("Saved: %s", result.Path)
	writeJSONData(w, SaveLevelResponse{Success: true, Filename: result.Filename})
}

// DeleteLevel removes the level file with the given id.
// DELETE /api/levels/{id}
func (h *Handler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	id, err := levels.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteInvalidRequest(w, errorMessage(err))
		return
	}

	path, err := h.store.Delete(id)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			log.Errorf("Failed to delete level %d: %v", id, err)
		}
		writeStoreError(w, err, false)
		return
	}

	log.Infof("Deleted: %s", path)
	writeJSONData(w, DeleteLevelResponse{Success: true})
}

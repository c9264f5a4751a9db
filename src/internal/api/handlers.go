package api

import (
	"encoding/json"
	"net/http"

	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

// LevelStore is the storage the API handlers operate on.
type LevelStore interface {
	List() ([]levels.Summary, error)
	Get(id int) (*levels.Level, error)
	Save(body []byte) (*levels.SaveResult, error)
	Delete(id int) (string, error)
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	store        LevelStore
	maxBodyBytes int64
}

// NewHandler creates a new API handler backed by the given level store.
func NewHandler(store LevelStore, maxBodyBytes int64) *Handler {
	return &Handler{
		store:        store,
		maxBodyBytes: maxBodyBytes,
	}
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

type testServer struct {
	handler http.Handler
	cfg     *config.Config
	store   *levels.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log.DisableLogs()
	t.Cleanup(log.EnableLogs)

	cfg := config.NewDefaultConfig()
	cfg.Server.RootDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.Server.RootDir, "index.html"), []byte("<h1>Level Editor</h1>"), 0644); err != nil {
		t.Fatalf("Failed to write index.html: %v", err)
	}

	store, err := levels.NewStoreFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewStoreFromConfig failed: %v", err)
	}

	return &testServer{handler: NewRouter(cfg, store), cfg: cfg, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type summary struct {
	ID       *int   `json:"id"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Filename string `json:"filename"`
}

func decodeSummaries(t *testing.T, rec *httptest.ResponseRecorder) []summary {
	t.Helper()
	var out []summary
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode summaries %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeObject(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to decode %q: %v", string(data), err)
	}
	return out
}

func TestGetLevels_Empty(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/levels", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("Expected [], got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Expected CORS origin *, got %q", origin)
	}
}

func TestSaveLevel_ThenList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 5, "name": "Stairs", "width": 20, "height": 12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved SaveLevelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("Failed to decode save response: %v", err)
	}
	if !saved.Success || saved.Filename != "level_05.json" {
		t.Errorf("Unexpected save response: %+v", saved)
	}
	if _, err := os.Stat(filepath.Join(s.cfg.GetAbsLevelsDir(), "level_05.json")); err != nil {
		t.Errorf("Expected level file on disk: %v", err)
	}

	list := decodeSummaries(t, s.do(t, http.MethodGet, "/api/levels", ""))
	if len(list) != 1 {
		t.Fatalf("Expected 1 level, got %d", len(list))
	}
	got := list[0]
	if got.ID == nil || *got.ID != 5 || got.Name != "Stairs" || got.Width != 20 || got.Height != 12 || got.Filename != "level_05.json" {
		t.Errorf("Unexpected summary: %+v", got)
	}
}

func TestGetLevels_Defaults(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 2}`); rec.Code != http.StatusOK {
		t.Fatalf("Save failed: %d", rec.Code)
	}

	list := decodeSummaries(t, s.do(t, http.MethodGet, "/api/levels", ""))
	if len(list) != 1 {
		t.Fatalf("Expected 1 level, got %d", len(list))
	}
	if list[0].Name != "Unnamed" || list[0].Width != 16 || list[0].Height != 16 {
		t.Errorf("Expected defaults Unnamed/16/16, got %+v", list[0])
	}
}

func TestGetLevels_SkipsCorruptFiles(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 1}`); rec.Code != http.StatusOK {
		t.Fatalf("Save failed: %d", rec.Code)
	}
	if err := os.WriteFile(filepath.Join(s.store.Dir(), "level_02.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	rec := s.do(t, http.MethodGet, "/api/levels", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	list := decodeSummaries(t, rec)
	if len(list) != 1 || list[0].Filename != "level_01.json" {
		t.Errorf("Expected only level_01.json, got %+v", list)
	}
}

func TestSaveThenGetLevel(t *testing.T) {
	s := newTestServer(t)

	body := `{"name": "Tower", "id": 5, "walls": [{"x": 0, "y": 1}], "door": {"x": 3, "y": 1}}`
	if rec := s.do(t, http.MethodPost, "/api/levels", body); rec.Code != http.StatusOK {
		t.Fatalf("Save failed: %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/levels/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	if !reflect.DeepEqual(decodeObject(t, rec.Body.Bytes()), decodeObject(t, []byte(body))) {
		t.Errorf("Expected saved document back, got %s", rec.Body.String())
	}

	onDisk, err := os.ReadFile(filepath.Join(s.store.Dir(), "level_05.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if rec.Body.String() != string(onDisk) {
		t.Errorf("Expected file content verbatim")
	}
}

func TestGetLevel_ETag(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 3}`); rec.Code != http.StatusOK {
		t.Fatalf("Save failed: %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/levels/3", "")
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("Expected ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/levels/3", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("Expected 304 for matching ETag, got %d", rec.Code)
	}
}

func TestSaveLevel_OverwritesWithoutMerge(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/levels", `{"id": 7, "name": "Old", "width": 30}`)
	s.do(t, http.MethodPost, "/api/levels", `{"id": 7, "name": "New"}`)

	doc := decodeObject(t, s.do(t, http.MethodGet, "/api/levels/7", "").Body.Bytes())
	if doc["name"] != "New" {
		t.Errorf("Expected second save to win, got %v", doc["name"])
	}
	if _, ok := doc["width"]; ok {
		t.Errorf("Expected no merged fields, got %v", doc)
	}
}

func TestSaveLevel_RepeatedKeysKeepLastValue(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodPost, "/api/levels", `{"id":7,"a":1,"a":2}`); rec.Code != http.StatusOK {
		t.Fatalf("Save failed: %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/levels/7", "")
	if strings.Count(rec.Body.String(), `"a"`) != 1 {
		t.Errorf("Expected a single \"a\" key, got %s", rec.Body.String())
	}
	if doc := decodeObject(t, rec.Body.Bytes()); doc["a"] != float64(2) {
		t.Errorf("Expected last value 2, got %v", doc["a"])
	}
}

func TestSaveLevel_LargeFloatID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 1e10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "level_10000000000.json") {
		t.Errorf("Unexpected response %s", rec.Body.String())
	}
}

func TestSaveLevel_InvalidBody(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"id": 1`},
		{"not an object", `[1, 2, 3]`},
		{"null id", `{"id": null}`},
		{"bool id", `{"id": true}`},
		{"empty body", ` `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/levels", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Expected JSON error body, got %q", rec.Body.String())
			}
			if resp.Error.Code != ErrCodeInvalidRequest || resp.Error.Message == "" {
				t.Errorf("Unexpected error body: %+v", resp)
			}
		})
	}
}

func TestSaveLevel_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.MaxBodyBytes = 16
	s.handler = NewRouter(s.cfg, s.store)

	rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 1, "name": "far too long for the limit"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "exceeds 16 bytes") {
		t.Errorf("Expected size limit message, got %s", rec.Body.String())
	}
}

func TestSaveLevel_StorageFailureIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	// a regular file where the levels directory should be
	if err := os.WriteFile(s.store.Dir(), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	rec := s.do(t, http.MethodPost, "/api/levels", `{"id": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestMissingLevel_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := s.do(t, method, "/api/levels/999", "")
			if rec.Code != http.StatusNotFound {
				t.Errorf("Expected 404, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "Level not found") {
				t.Errorf("Expected 'Level not found', got %s", rec.Body.String())
			}
		})
	}
}

func TestInvalidLevelID_BadRequest(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := s.do(t, method, "/api/levels/abc", "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestDeleteLevel(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/levels", `{"id": 4}`)

	rec := s.do(t, http.MethodDelete, "/api/levels/4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header on delete response")
	}

	if rec := s.do(t, http.MethodGet, "/api/levels/4", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected deleted level to be gone, got %d", rec.Code)
	}
}

func TestConcurrentSavesOfDifferentIDs(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	for id := 1; id <= 10; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"id": %d, "name": "level %d"}`, id, id)
			if rec := s.do(t, http.MethodPost, "/api/levels", body); rec.Code != http.StatusOK {
				t.Errorf("Save of %d failed: %d", id, rec.Code)
			}
		}(id)
	}
	wg.Wait()

	list := decodeSummaries(t, s.do(t, http.MethodGet, "/api/levels", ""))
	if len(list) != 10 {
		t.Fatalf("Expected 10 levels, got %d", len(list))
	}
	for _, l := range list {
		if l.ID == nil || l.Name != fmt.Sprintf("level %d", *l.ID) {
			t.Errorf("Corrupted level summary: %+v", l)
		}
	}
}

package frontend

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupRoot(t *testing.T) string {
	t.Helper()
	parent := t.TempDir()
	root := filepath.Join(parent, "editor")
	if err := os.MkdirAll(filepath.Join(root, "js"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	files := map[string]string{
		filepath.Join(root, "index.html"):    "<html>editor</html>",
		filepath.Join(root, "js", "app.js"):  "console.log('editor')",
		filepath.Join(parent, "secret.txt"): "do not serve",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return root
}

func TestSafeFileSystem_OpensFilesInsideRoot(t *testing.T) {
	fs := NewSafeFileSystem(setupRoot(t))

	f, err := fs.Open("/js/app.js")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
}

func TestSafeFileSystem_RejectsTraversal(t *testing.T) {
	fs := NewSafeFileSystem(setupRoot(t))

	for _, name := range []string{"../secret.txt", "/../secret.txt", "js/../../secret.txt"} {
		if f, err := fs.Open(name); err == nil {
			f.Close()
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestFileServer(t *testing.T) {
	handler := NewFileServer(setupRoot(t))

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<html>editor</html>"},
		{"/js/app.js", http.StatusOK, "console.log('editor')"},
		{"/missing.html", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("Expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

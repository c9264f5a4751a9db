package components

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Server.RootDir = t.TempDir()
	return cfg
}

func TestAPIServer_StartServeStop(t *testing.T) {
	log.DisableLogs()
	t.Cleanup(log.EnableLogs)

	cfg := newTestConfig(t)
	store, err := levels.NewStoreFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewStoreFromConfig failed: %v", err)
	}

	server := NewAPIServer(cfg, store)
	if err := server.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if server.Addr() == nil {
		t.Error("Expected server to be running")
	}
	if err := server.Start(); err == nil {
		t.Error("Expected error when starting twice")
	}

	resp, err := http.Get("http://" + server.Addr().String() + "/api/levels")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("Expected [], got %q", string(body))
	}

	if err := server.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if server.Addr() != nil {
		t.Error("Expected server to be stopped")
	}
	if err := server.Stop(); err == nil {
		t.Error("Expected error when stopping twice")
	}
}

func TestAPIServer_BindFailure(t *testing.T) {
	log.DisableLogs()
	t.Cleanup(log.EnableLogs)

	cfg := newTestConfig(t)
	store := levels.NewStore(cfg.GetAbsLevelsDir())

	first := NewAPIServer(cfg, store)
	if err := first.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	busy := *cfg
	busy.Server.ListenAddr = first.Addr().String()
	second := NewAPIServer(&busy, store)
	if err := second.Start(); err == nil {
		second.Stop()
		t.Fatal("Expected bind failure on a busy address")
	}
	if second.Addr() != nil {
		t.Error("Expected failed server not to be running")
	}
}

func TestLevelWatcher_Lifecycle(t *testing.T) {
	log.DisableLogs()
	t.Cleanup(log.EnableLogs)

	store := levels.NewStore(t.TempDir())
	watcher := NewLevelWatcher(store)

	if err := watcher.Stop(); err == nil {
		t.Error("Expected error when stopping a watcher that never started")
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := watcher.Start(); err == nil {
		t.Error("Expected error when starting twice")
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestComponentNames(t *testing.T) {
	var _ Component = (*APIServer)(nil)
	var _ Component = (*LevelWatcher)(nil)

	cfg := newTestConfig(t)
	if NewAPIServer(cfg, nil).Name() == "" || NewLevelWatcher(nil).Name() == "" {
		t.Error("Expected component names")
	}
}

package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketpet/server/internal/engine"
	"github.com/pocketpet/server/internal/infra/storage"
	"github.com/pocketpet/server/internal/platform/config"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/render"
)

type stateResponse struct {
	Pet   engine.Snapshot `json:"pet"`
	Frame struct {
		Payload render.Frame `json:"payload"`
	} `json:"frame"`
}

func TestServerLoadsSpeciesDocumentItServes(t *testing.T) {
	// Setup: the species document lives in the asset dir this server serves,
	// and the asset base URL points back at the server itself.
	dir := t.TempDir()
	assetDir := filepath.Join(dir, "public")
	docDir := filepath.Join(assetDir, "images", "animals", "kitty")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `{"hat": {"pet-neutral.png": {"y": -5}}}`
	if err := os.WriteFile(filepath.Join(docDir, "config.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(dir, "pet.db")
	db, err := storage.InitSQLite(dbPath)
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	if err := storage.NewSQLiteKVStore(db).Set(context.Background(), "petHat", "images/outfit-hat-1.png"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	db.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	base := "http://" + ln.Addr().String() + "/"

	cfg := config.NewDefault()
	cfg.DBPath = dbPath
	cfg.AssetDir = assetDir
	cfg.AssetBaseURL = base
	cfg.EventArchiveDir = ""
	cfg.TickInterval = time.Hour

	// Act
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, ln, logger.Discard()) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run returned %v", err)
		}
	})

	// Assert: the first and only fetch succeeds and the hat is shifted.
	var state stateResponse
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "api/state")
		if err == nil {
			state = stateResponse{}
			json.NewDecoder(resp.Body).Decode(&state)
			resp.Body.Close()
			if state.Pet.ConfigLoaded {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	if !state.Pet.ConfigLoaded {
		t.Fatalf("Species configuration never loaded: %+v", state.Pet)
	}
	if got := state.Frame.Payload.Transforms[render.ElementHat]; got != "translate(0%, -5%) rotate(0deg)" {
		t.Errorf("Hat transform = %q", got)
	}
}

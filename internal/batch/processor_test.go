package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"volvis-renderer/internal/render"
	"volvis-renderer/internal/volume"
)

func testBatchConfig(t *testing.T, dir string) Config {
	t.Helper()
	vol, err := volume.SolidSphere(16, 6)
	if err != nil {
		t.Fatalf("SolidSphere: %v", err)
	}
	return Config{
		Volume:    vol,
		Gradient:  volume.NewGradientVolume(vol),
		Render:    render.Config{Width: 16, Height: 16, Mode: render.ModeMIP, StepSize: 1},
		OutputDir: dir,
		Pattern:   "frame_%03d.png",
		Frames:    3,
		Distance:  40,
		FOV:       45,
		Gamma:     1,
		Workers:   2,
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	results, err := Run(testBatchConfig(t, dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	for i, res := range results {
		if !res.Success {
			t.Fatalf("frame %d failed: %s", i, res.Error)
		}
		if res.Frame != i {
			t.Errorf("result %d has frame index %d", i, res.Frame)
		}
		if _, err := os.Stat(filepath.Join(dir, res.Image)); err != nil {
			t.Errorf("frame image missing: %v", err)
		}
	}
}

func TestRun_Validation(t *testing.T) {
	cfg := testBatchConfig(t, t.TempDir())
	cfg.Frames = 0
	if _, err := Run(cfg); err == nil {
		t.Error("zero frames must be rejected")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	results := []Result{
		{Frame: 0, Image: "frame_000.png", Success: true},
		{Frame: 1, Error: "boom"},
	}

	path := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(path, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded []Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Image != "frame_000.png" || decoded[1].Error != "boom" {
		t.Errorf("round-tripped manifest mismatch: %+v", decoded)
	}
}

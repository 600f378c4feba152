package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteManifest writes the per-frame results as manifest.json alongside the
// rendered frames so players and review tools can index the sequence.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest: %w", err)
	}
	return nil
}

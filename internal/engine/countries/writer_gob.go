package countries

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"FlowAtlas/internal/model"
)

// SummaryData holds the metadata for an on-disk snapshot.
type SummaryData struct {
	TaskName  string `json:"task_name"`
	Countries int    `json:"countries"`
	Timestamp string `json:"timestamp"`
}

// GobWriter persists task snapshots to timestamped directories on disk.
// It implements the model.Writer interface.
type GobWriter struct {
	rootPath string
	interval time.Duration
}

// NewGobWriter creates a new on-disk snapshot writer.
func NewGobWriter(rootPath string, interval time.Duration) model.Writer {
	return &GobWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *GobWriter) GetInterval() time.Duration {
	return w.interval
}

// Write serializes a task snapshot into a timestamped directory: one gob file
// with the country records plus a summary.json with the metadata.
func (w *GobWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for Gob Writer: expected countries.SnapshotData, got %T", payload)
	}

	if len(snapshot.Countries) == 0 {
		return nil // Nothing to write
	}

	taskDir := filepath.Join(w.rootPath, timestamp, snapshot.TaskName)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	dataPath := filepath.Join(taskDir, "countries.dat")
	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", dataPath, err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(snapshot.Countries); err != nil {
		return fmt.Errorf("failed to encode countries to gob for file '%s': %w", dataPath, err)
	}

	summary := SummaryData{
		TaskName:  snapshot.TaskName,
		Countries: len(snapshot.Countries),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	summaryPath := filepath.Join(taskDir, "summary.json")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	jsonEncoder := json.NewEncoder(summaryFile)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return nil
}

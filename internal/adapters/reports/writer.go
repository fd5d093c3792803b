// Package reports emits incident artifacts for operators: standalone
// JSON report files next to the database record, and CSV exports for the
// dashboard download.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// JSONWriter implements ports.ReportWriter, writing one pretty-printed
// incident_<timestamp>.json file per incident.
type JSONWriter struct {
	dir string
}

// NewJSONWriter creates a report writer rooted at dir.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir}
}

// Write persists the incident as a JSON file and returns the file name.
// The microsecond-resolution timestamp keeps names unique within a batch.
func (w *JSONWriter) Write(incident *domain.Incident) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	now := time.Now().UTC()
	name := fmt.Sprintf("incident_%s_%06d.json", now.Format("20060102_150405"), now.Nanosecond()/1000)
	data, err := json.MarshalIndent(incident, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal incident: %w", err)
	}

	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write incident report: %w", err)
	}

	return name, nil
}

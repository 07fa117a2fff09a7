// File: services/intermediate/writer.go
package intermediate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"viyarschedule/models"
)

// ArtifactWriter stores the text and JSON forms of decoded rosters under Dir
// so an import can be inspected or replayed.
type ArtifactWriter struct {
	Dir string
}

// NewArtifactWriter returns nil when dir is empty, which disables artifacts.
func NewArtifactWriter(dir string) *ArtifactWriter {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return &ArtifactWriter{Dir: dir}
}

// Write stores <base>.txt and <base>.json and returns their paths.
func (w *ArtifactWriter) Write(base string, roster models.Roster) (string, string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create intermediate dir: %w", err)
	}

	var txt bytes.Buffer
	if err := EncodeText(&txt, roster); err != nil {
		return "", "", err
	}
	txtPath := filepath.Join(w.Dir, base+".txt")
	if err := os.WriteFile(txtPath, txt.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", txtPath, err)
	}

	var js bytes.Buffer
	if err := EncodeJSON(&js, roster); err != nil {
		return "", "", err
	}
	jsonPath := filepath.Join(w.Dir, base+".json")
	if err := os.WriteFile(jsonPath, js.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", jsonPath, err)
	}
	return txtPath, jsonPath, nil
}

// ReadFile loads a roster from a .txt or .json artifact.
func ReadFile(path string) (models.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Roster{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(f)
	}
	return DecodeText(f)
}

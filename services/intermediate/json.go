// File: services/intermediate/json.go
package intermediate

import (
	"encoding/json"
	"fmt"
	"io"

	"viyarschedule/models"
)

// EncodeJSON writes the derived { "employees": [...] } document.
func EncodeJSON(w io.Writer, roster models.Roster) error {
	if roster.Employees == nil {
		roster.Employees = []models.RosterEmployee{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(roster); err != nil {
		return fmt.Errorf("encode roster json: %w", err)
	}
	return nil
}

// DecodeJSON reads a document written by EncodeJSON.
func DecodeJSON(r io.Reader) (models.Roster, error) {
	var roster models.Roster
	if err := json.NewDecoder(r).Decode(&roster); err != nil {
		return models.Roster{}, fmt.Errorf("decode roster json: %w", err)
	}
	return roster, nil
}

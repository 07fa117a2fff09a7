// File: models/roster.go
package models

// Shift is one decoded date column of an employee block. Date is the raw
// header token (DD.MM.YYYY) until the normalizer turns it into a calendar day.
type Shift struct {
	Date       string `json:"date"`
	Action     string `json:"action"`
	Department string `json:"department"`
	Duty       bool   `json:"duty"`
}

// RosterEmployee is one logical employee decoded from a block.
type RosterEmployee struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Schedule []Shift `json:"schedule"`
}

// Roster is an import batch. It is never persisted.
type Roster struct {
	Employees []RosterEmployee `json:"employees"`
}

// Append merges other into r, keeping order.
func (r *Roster) Append(other Roster) {
	r.Employees = append(r.Employees, other.Employees...)
}

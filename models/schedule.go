// File: models/schedule.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is one stored entry per (employee, date).
type Schedule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EmployeeID primitive.ObjectID `bson:"employee" json:"-"`
	Date       time.Time          `bson:"date" json:"date"` // UTC midnight
	Action     string             `bson:"action" json:"action"`
	Department string             `bson:"department" json:"department"`
	Duty       bool               `bson:"duty" json:"duty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"-"`
}

// ScheduleEntry is the wire shape of a schedule entry.
type ScheduleEntry struct {
	Date       time.Time `json:"date"`
	Action     string    `json:"action"`
	Department string    `json:"department"`
	Duty       bool      `json:"duty"`
}

// EntryFromSchedule drops storage-only fields.
func EntryFromSchedule(s Schedule) ScheduleEntry {
	return ScheduleEntry{
		Date:       s.Date.UTC(),
		Action:     s.Action,
		Department: s.Department,
		Duty:       s.Duty,
	}
}

// EmployeeSchedule answers lookup-by-name.
type EmployeeSchedule struct {
	Employee  string          `json:"employee"`
	Schedules []ScheduleEntry `json:"schedules"`
}

// EmployeeScheduleGroup is one element of the grouped query responses.
type EmployeeScheduleGroup struct {
	Name      string          `json:"name"`
	Position  string          `json:"position"`
	Schedules []ScheduleEntry `json:"schedules"`
}

// Suggestions answers the free-text search.
type Suggestions struct {
	Employees   []EmployeeSummary `json:"employees"`
	Departments []string          `json:"departments"`
}

// File: services/roster/layout.go
package roster

// RowRole names a physical row of an employee block. Offsets are relative to
// the primary (name) row.
type RowRole int

const (
	RoleNone RowRole = iota
	RolePrimary
	RoleDepartment // first continuation row
	RoleDuty       // second continuation row
)

// BlockSchema says which row each per-block field is read from.
type BlockSchema struct {
	Position   RowRole
	Department RowRole // RoleNone yields an empty department
	Duty       RowRole
}

// Layout describes the spreadsheet format consumed by the generic block extractor.
type Layout struct {
	HeaderRow    int
	NameCol      int
	PositionCol  int
	FirstDateCol int

	Sentinel         string // header cell closing the date band
	SummaryName      string // name cell of rows that must be skipped
	SupervisorMarker string // position cell value that selects the Supervisor schema
	DefaultAction    string // action for blank cells
	DutyMarkers      []string

	Offsets    map[RowRole]int
	Supervisor BlockSchema
	Regular    BlockSchema
}

// DefaultLayout matches the monthly duty-roster exports.
func DefaultLayout() Layout {
	return Layout{
		HeaderRow:        0,
		NameCol:          2,
		PositionCol:      3,
		FirstDateCol:     4,
		Sentinel:         "ВСЬОГО ЛК",
		SummaryName:      "Всього працює",
		SupervisorMarker: "керівник",
		DefaultAction:    "Рв",
		DutyMarkers:      []string{"ч", "Ч"},
		Offsets: map[RowRole]int{
			RolePrimary:    0,
			RoleDepartment: 1,
			RoleDuty:       2,
		},
		Supervisor: BlockSchema{Position: RolePrimary, Department: RoleNone, Duty: RoleDepartment},
		Regular:    BlockSchema{Position: RoleDepartment, Department: RoleDepartment, Duty: RoleDuty},
	}
}

func (l Layout) schemaFor(positionCell string) BlockSchema {
	if positionCell == l.SupervisorMarker {
		return l.Supervisor
	}
	return l.Regular
}

func (l Layout) isDutyMarker(v string) bool {
	for _, m := range l.DutyMarkers {
		if v == m {
			return true
		}
	}
	return false
}

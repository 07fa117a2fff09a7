// File: services/roster/decoder.go
package roster

import (
	"errors"
	"fmt"
	"time"

	"viyarschedule/models"
	"viyarschedule/services/normalize"

	"go.uber.org/zap"
)

// ErrNoDateHeader aborts a sheet whose header row carries no date column.
var ErrNoDateHeader = errors.New("sheet header has no date columns")

// monthNames are used to name intermediate artifacts, as the exports are named.
var monthNames = [...]string{
	"Січень", "Лютий", "Березень", "Квітень", "Травень", "Червень",
	"Липень", "Серпень", "Вересень", "Жовтень", "Листопад", "Грудень",
}

// MonthName returns the Ukrainian name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// SheetResult is the outcome of decoding one sheet.
type SheetResult struct {
	Name   string
	Month  time.Month // zero when no band date parsed
	Year   int
	Roster models.Roster
	Err    error
}

// Result is the outcome of decoding a workbook.
type Result struct {
	Sheets  []SheetResult
	Skipped []models.SkipRecord
}

// Roster concatenates the rosters of all successfully decoded sheets in sheet order.
func (r Result) Roster() models.Roster {
	var out models.Roster
	for _, s := range r.Sheets {
		if s.Err == nil {
			out.Append(s.Roster)
		}
	}
	return out
}

// Decoder turns worksheet grids into rosters using a Layout.
type Decoder struct {
	Layout Layout
	Logger *zap.Logger
}

// NewDecoder returns a Decoder for layout. A nil logger discards output.
func NewDecoder(layout Layout, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{Layout: layout, Logger: logger}
}

// DecodeWorkbook decodes every sheet. A structurally broken sheet is reported in
// its SheetResult and does not stop the remaining sheets.
func (d *Decoder) DecodeWorkbook(sheets []Sheet) Result {
	var res Result
	for _, sheet := range sheets {
		roster, skipped, err := d.DecodeSheet(sheet)
		sr := SheetResult{Name: sheet.Name, Roster: roster, Err: err}
		if err != nil {
			d.Logger.Warn("sheet skipped", zap.String("sheet", sheet.Name), zap.Error(err))
			res.Skipped = append(res.Skipped, models.SkipRecord{
				Sheet:  sheet.Name,
				Reason: models.SkipSheetFailed,
				Detail: err.Error(),
			})
		} else if first, ok := d.firstDate(sheet); ok {
			sr.Month, sr.Year = first.Month(), first.Year()
		}
		res.Sheets = append(res.Sheets, sr)
		res.Skipped = append(res.Skipped, skipped...)
	}
	return res
}

// DecodeSheet extracts one employee per block of sheet.
func (d *Decoder) DecodeSheet(sheet Sheet) (models.Roster, []models.SkipRecord, error) {
	l := d.Layout
	if len(sheet.Rows) <= l.HeaderRow {
		return models.Roster{}, nil, fmt.Errorf("sheet %s: %w", sheet.Name, ErrNoDateHeader)
	}

	header := sheet.Rows[l.HeaderRow]
	band := d.band(header)
	if !d.hasDate(header, band) {
		return models.Roster{}, nil, fmt.Errorf("sheet %s: %w", sheet.Name, ErrNoDateHeader)
	}

	var (
		roster  models.Roster
		skipped []models.SkipRecord
	)
	for idx := l.HeaderRow + 1; idx < len(sheet.Rows); idx++ {
		name := cell(sheet.Rows, idx, l.NameCol)
		if name == "" || name == l.SummaryName {
			continue
		}

		emp, ok := d.extractBlock(sheet.Rows, idx, header, band)
		if !ok {
			d.Logger.Warn("block skipped: no position",
				zap.String("sheet", sheet.Name),
				zap.Int("row", idx+1),
				zap.String("employee", name))
			skipped = append(skipped, models.SkipRecord{
				Sheet:    sheet.Name,
				Row:      idx + 1,
				Employee: name,
				Reason:   models.SkipMissingPosition,
			})
			continue
		}
		roster.Employees = append(roster.Employees, emp)
	}
	return roster, skipped, nil
}

// extractBlock is the generic block extractor: every field is read from the
// row its schema role points at.
func (d *Decoder) extractBlock(rows [][]string, idx int, header []string, band [2]int) (models.RosterEmployee, bool) {
	l := d.Layout
	schema := l.schemaFor(cell(rows, idx, l.PositionCol))

	position := d.roleCell(rows, idx, schema.Position, l.PositionCol)
	if position == "" {
		return models.RosterEmployee{}, false
	}

	emp := models.RosterEmployee{
		Name:     cell(rows, idx, l.NameCol),
		Position: position,
		Schedule: make([]models.Shift, 0, band[1]-band[0]),
	}
	for col := band[0]; col < band[1]; col++ {
		action := cell(rows, idx, col)
		if action == "" {
			action = l.DefaultAction
		}
		emp.Schedule = append(emp.Schedule, models.Shift{
			Date:       normalize.DateToken(at(header, col)),
			Action:     action,
			Department: d.roleCell(rows, idx, schema.Department, col),
			Duty:       l.isDutyMarker(d.roleCell(rows, idx, schema.Duty, col)),
		})
	}
	return emp, true
}

func (d *Decoder) roleCell(rows [][]string, idx int, role RowRole, col int) string {
	if role == RoleNone {
		return ""
	}
	return cell(rows, idx+d.Layout.Offsets[role], col)
}

// band returns the [first, end) date columns of header.
func (d *Decoder) band(header []string) [2]int {
	end := len(header)
	for i, h := range header {
		if h == d.Layout.Sentinel {
			end = i
			break
		}
	}
	if end < d.Layout.FirstDateCol {
		end = d.Layout.FirstDateCol
	}
	return [2]int{d.Layout.FirstDateCol, end}
}

func (d *Decoder) hasDate(header []string, band [2]int) bool {
	for col := band[0]; col < band[1]; col++ {
		if normalize.LooksLikeDate(at(header, col)) {
			return true
		}
	}
	return false
}

func (d *Decoder) firstDate(sheet Sheet) (time.Time, bool) {
	if len(sheet.Rows) <= d.Layout.HeaderRow {
		return time.Time{}, false
	}
	header := sheet.Rows[d.Layout.HeaderRow]
	band := d.band(header)
	for col := band[0]; col < band[1]; col++ {
		if t, err := normalize.ParseDate(at(header, col)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cell(rows [][]string, row, col int) string {
	if row < 0 || row >= len(rows) {
		return ""
	}
	return at(rows[row], col)
}

func at(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

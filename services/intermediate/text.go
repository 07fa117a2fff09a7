// File: services/intermediate/text.go
package intermediate

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"viyarschedule/models"
)

// Line labels of the intermediate text form.
const (
	LabelName       = "Ім'я працівника:"
	LabelPosition   = "Посада:"
	LabelDepartment = "Departament:"
	LabelDuty       = "Duty:"
)

// shiftLine accepts the same day and month widths the sheet decoder does.
var shiftLine = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}`)

// EncodeText renders roster as labeled lines: name, position, then per shift
// "date: action", department and duty, with a blank line after each employee.
func EncodeText(w io.Writer, roster models.Roster) error {
	bw := bufio.NewWriter(w)
	for _, emp := range roster.Employees {
		fmt.Fprintf(bw, "%s %s\n", LabelName, emp.Name)
		fmt.Fprintf(bw, "%s %s\n", LabelPosition, emp.Position)
		for _, s := range emp.Schedule {
			fmt.Fprintln(bw, strings.TrimSpace(fmt.Sprintf("%s: %s", s.Date, s.Action)))
			fmt.Fprintf(bw, "%s %s\n", LabelDepartment, s.Department)
			fmt.Fprintf(bw, "%s %t\n", LabelDuty, s.Duty)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// TextString is EncodeText into a string.
func TextString(roster models.Roster) string {
	var sb strings.Builder
	_ = EncodeText(&sb, roster)
	return sb.String()
}

// DecodeText rebuilds a roster from the labeled-line form. Missing department
// or duty lines default to "" and false.
func DecodeText(r io.Reader) (models.Roster, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return models.Roster{}, fmt.Errorf("read intermediate text: %w", err)
	}

	var (
		roster  models.Roster
		current *models.RosterEmployee
	)
	flush := func() {
		if current != nil {
			roster.Employees = append(roster.Employees, *current)
		}
	}

	for idx, line := range lines {
		switch {
		case strings.HasPrefix(line, LabelName):
			flush()
			current = &models.RosterEmployee{Name: value(line, LabelName), Schedule: []models.Shift{}}
		case strings.HasPrefix(line, LabelPosition):
			if current != nil {
				current.Position = value(line, LabelPosition)
			}
		case shiftLine.MatchString(line):
			if current == nil {
				continue
			}
			date, action, _ := strings.Cut(line, ":")
			shift := models.Shift{Date: strings.TrimSpace(date), Action: strings.TrimSpace(action)}
			if next := lineAt(lines, idx+1); strings.HasPrefix(next, LabelDepartment) {
				shift.Department = value(next, LabelDepartment)
				if duty := lineAt(lines, idx+2); strings.HasPrefix(duty, LabelDuty) {
					shift.Duty = strings.EqualFold(value(duty, LabelDuty), "true")
				}
			} else if strings.HasPrefix(next, LabelDuty) {
				shift.Duty = strings.EqualFold(value(next, LabelDuty), "true")
			}
			current.Schedule = append(current.Schedule, shift)
		}
	}
	flush()
	return roster, nil
}

func value(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

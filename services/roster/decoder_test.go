package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"viyarschedule/models"
)

func header(dates ...string) []string {
	h := []string{"№", "", "ПІБ", "Посада"}
	h = append(h, dates...)
	return append(h, "ВСЬОГО ЛК", "Примітка")
}

// sampleSheet: one supervisor block (2 rows) and one regular block (3 rows).
func sampleSheet() Sheet {
	return Sheet{
		Name: "Лист1",
		Rows: [][]string{
			header("20.01.2025 Пн", "21.01.2025 Вт", "22.01.2025 Ср"),
			{"1", "", "Коваль Олена", "керівник", "8", "", "ВХ", "160", "x"},
			{"", "", "", "", "ч", "Ч", "x"},
			{"2", "", "Мельник Іван", "", "", "8", "ВП", "120"},
			{"", "", "", "консультант", "Фінанси", "Фінанси", "Склад"},
			{"", "", "", "", "", "ч", "Ч"},
			{"", "", "Всього працює", "", "2", "2", "1"},
		},
	}
}

func TestDecodeSheet_SupervisorAndRegular(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)

	roster, skipped, err := d.DecodeSheet(sampleSheet())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, roster.Employees, 2)

	sup := roster.Employees[0]
	assert.Equal(t, "Коваль Олена", sup.Name)
	assert.Equal(t, "керівник", sup.Position)
	assert.Equal(t, []models.Shift{
		{Date: "20.01.2025", Action: "8", Department: "", Duty: true},
		{Date: "21.01.2025", Action: "Рв", Department: "", Duty: true},
		{Date: "22.01.2025", Action: "ВХ", Department: "", Duty: false},
	}, sup.Schedule)

	reg := roster.Employees[1]
	assert.Equal(t, "Мельник Іван", reg.Name)
	assert.Equal(t, "консультант", reg.Position)
	assert.Equal(t, []models.Shift{
		{Date: "20.01.2025", Action: "Рв", Department: "Фінанси", Duty: false},
		{Date: "21.01.2025", Action: "8", Department: "Фінанси", Duty: true},
		{Date: "22.01.2025", Action: "ВП", Department: "Склад", Duty: true},
	}, reg.Schedule)
}

func TestDecodeSheet_DutyMarkerValues(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)
	for marker, want := range map[string]bool{"ч": true, "Ч": true, "": false, "x": false, "чч": false, "1": false} {
		sheet := Sheet{Name: "s", Rows: [][]string{
			header("01.02.2025"),
			{"1", "", "A", "", "8"},
			{"", "", "", "pos", "dept"},
			{"", "", "", "", marker},
		}}
		roster, _, err := d.DecodeSheet(sheet)
		require.NoError(t, err)
		require.Len(t, roster.Employees, 1)
		assert.Equal(t, want, roster.Employees[0].Schedule[0].Duty, "marker %q", marker)
	}
}

func TestDecodeSheet_MissingPositionIsSoftSkip(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)
	sheet := Sheet{Name: "s", Rows: [][]string{
		header("01.02.2025"),
		{"1", "", "Без Посади", "", "8"},
		{"", "", "", "", "dept"},
		{"2", "", "Є Посада", "", "8"},
		{"", "", "", "pos", "dept"},
	}}

	roster, skipped, err := d.DecodeSheet(sheet)
	require.NoError(t, err)
	require.Len(t, roster.Employees, 1)
	assert.Equal(t, "Є Посада", roster.Employees[0].Name)
	require.Len(t, skipped, 1)
	assert.Equal(t, models.SkipRecord{Sheet: "s", Row: 2, Employee: "Без Посади", Reason: models.SkipMissingPosition}, skipped[0])
}

func TestDecodeSheet_NoSentinelUsesWholeHeader(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)
	sheet := Sheet{Name: "s", Rows: [][]string{
		{"№", "", "ПІБ", "Посада", "01.03.2025", "02.03.2025"},
		{"1", "", "A", "керівник", "8", "8"},
	}}
	roster, _, err := d.DecodeSheet(sheet)
	require.NoError(t, err)
	require.Len(t, roster.Employees, 1)
	assert.Len(t, roster.Employees[0].Schedule, 2)
}

func TestDecodeSheet_NoDateHeaderIsFatalForSheet(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)
	_, _, err := d.DecodeSheet(Sheet{Name: "s", Rows: [][]string{{"№", "", "ПІБ", "Посада", "ВСЬОГО ЛК"}}})
	assert.ErrorIs(t, err, ErrNoDateHeader)

	_, _, err = d.DecodeSheet(Sheet{Name: "empty"})
	assert.ErrorIs(t, err, ErrNoDateHeader)
}

func TestDecodeWorkbook_BrokenSheetDoesNotStopOthers(t *testing.T) {
	d := NewDecoder(DefaultLayout(), nil)
	res := d.DecodeWorkbook([]Sheet{
		{Name: "broken", Rows: [][]string{{"nothing here"}}},
		sampleSheet(),
	})
	require.Len(t, res.Sheets, 2)
	assert.ErrorIs(t, res.Sheets[0].Err, ErrNoDateHeader)
	require.NoError(t, res.Sheets[1].Err)
	assert.Equal(t, time.January, res.Sheets[1].Month)
	assert.Equal(t, 2025, res.Sheets[1].Year)
	assert.Len(t, res.Roster().Employees, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, models.SkipSheetFailed, res.Skipped[0].Reason)
}

func TestReadWorkbook_XLSX(t *testing.T) {
	f := excelize.NewFile()
	first := sampleSheet()
	for i, row := range first.Rows {
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &vals))
	}
	_, err := f.NewSheet("Лютий")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Лютий", "A1", &[]interface{}{"№", "", "ПІБ", "Посада", " 01.02.2025 Сб ", "ВСЬОГО ЛК"}))
	require.NoError(t, f.SetSheetRow("Лютий", "A2", &[]interface{}{"1", "", "Коваль Олена", "керівник", "ВХ"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheets, err := ReadWorkbook("Січень.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "01.02.2025 Сб", sheets[1].Rows[0][4])

	res := NewDecoder(DefaultLayout(), nil).DecodeWorkbook(sheets)
	roster := res.Roster()
	require.Len(t, roster.Employees, 3)
	assert.Equal(t, "Коваль Олена", roster.Employees[2].Name)
	assert.Equal(t, "01.02.2025", roster.Employees[2].Schedule[0].Date)
}

func TestReadWorkbook_Unsupported(t *testing.T) {
	_, err := ReadWorkbook("notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.False(t, IsSpreadsheet("notes.txt"))
	assert.True(t, IsSpreadsheet("Січень.XLS"))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Лютий", MonthName(time.February))
	assert.Equal(t, "", MonthName(0))
}

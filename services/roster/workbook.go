// File: services/roster/workbook.go
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFile is returned for uploads that are not spreadsheets.
var ErrUnsupportedFile = errors.New("unsupported spreadsheet file")

// maxXLSRows bounds legacy sheets; monthly rosters are a few hundred rows.
const maxXLSRows = 65536

// Sheet is a decoded worksheet grid with trimmed, NFC-normalised cells.
type Sheet struct {
	Name string
	Rows [][]string
}

// IsSpreadsheet reports whether filename has an extension ReadWorkbook understands.
func IsSpreadsheet(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// ReadWorkbook reads every sheet of an xlsx/xlsm or legacy xls workbook.
func ReadWorkbook(filename string, data []byte) ([]Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}

func readXLSX(data []byte) ([]Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read rows from sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: cleanRows(rows)})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	sheets := make([]Sheet, 0, workbook.NumSheets())
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow) && r < maxXLSRows; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			// LastCol is one past the last populated column
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: cleanRows(rows)})
	}
	return sheets, nil
}

func cleanRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i, v := range row {
			row[i] = norm.NFC.String(strings.TrimSpace(v))
		}
	}
	return rows
}

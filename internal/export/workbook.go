// Package export renders admin reports as xlsx workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Column struct {
	Title string
	Width float64
}

// Sheet is a single-sheet workbook: optional preamble lines above a bold
// header row, the data rows, then footer rows.
type Sheet struct {
	Name     string
	Preamble []string
	Columns  []Column
	Rows     [][]interface{}
	Footer   [][]interface{}
}

// Build writes the sheet into a new workbook and returns the xlsx bytes.
func (s *Sheet) Build() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	for _, line := range s.Preamble {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(s.Name, cell, line); err != nil {
			return nil, err
		}
		row++
	}
	if len(s.Preamble) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetCellStyle(s.Name, first, first, bold); err != nil {
			return nil, err
		}
		row++
	}

	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Title
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if c.Width > 0 {
			if err := f.SetColWidth(s.Name, col, col, c.Width); err != nil {
				return nil, err
			}
		}
	}
	if err := s.writeRow(f, row, header); err != nil {
		return nil, err
	}
	if len(s.Columns) > 0 {
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(s.Columns), row)
		if err := f.SetCellStyle(s.Name, start, end, bold); err != nil {
			return nil, err
		}
	}
	row++

	for _, values := range s.Rows {
		if err := s.writeRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}
	for _, values := range s.Footer {
		if err := s.writeRow(f, row, values); err != nil {
			return nil, err
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(max(len(values), 1), row)
		if err := f.SetCellStyle(s.Name, start, end, bold); err != nil {
			return nil, err
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Sheet) writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(s.Name, cell, &values)
}

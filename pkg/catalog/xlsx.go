package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadXLSX reads a catalog table from a spreadsheet: the sheet named in
// format, or the first one. The first row is the header; blank rows are
// skipped.
func LoadXLSX(path string, format FormatSpec) (*Store, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "xlsx: open file")}
	}

	sheet, err := pickSheet(f, format.Sheet)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	var table [][]string
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		blank := true
		for j, cell := range row.Cells {
			cells[j] = cell.String()
			if strings.TrimSpace(cells[j]) != "" {
				blank = false
			}
		}
		if !blank {
			table = append(table, cells)
		}
	}
	if len(table) == 0 {
		want := format.Columns.headers()
		return nil, &LoadError{Source: path, Missing: want[:], Err: eris.New("empty catalog")}
	}
	return fromTable(path, table[0], table[1:], format.Columns)
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

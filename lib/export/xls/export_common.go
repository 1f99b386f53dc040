package xlsexport

import "github.com/xuri/excelize/v2"

// Shared sheet chrome for the xlsx exports: one bold centered header row,
// left-aligned data cells, a single column width for everything.

const (
	exportFontFamily = "Times New Roman"
	exportFontSize   = 11
	exportColWidth   = 25
)

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// writeHeaderRow fills the row after the given one with the column titles
// and returns the row it wrote to.
func writeHeaderRow(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
		Font: &excelize.Font{
			Bold:   true,
			Family: exportFontFamily,
			Size:   exportFontSize,
		},
	})
	if err != nil {
		return row, err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err = f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err = f.SetColWidth(sheet, "A", lastCol, exportColWidth); err != nil {
		return row, err
	}
	for idx, title := range headers {
		if err = setCell(f, sheet, idx+1, row, title); err != nil {
			return row, err
		}
	}
	return row, nil
}

func styleDataRange(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Family: exportFontFamily,
			Size:   exportFontSize,
		},
	})
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

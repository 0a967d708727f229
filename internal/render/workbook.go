package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"dogmeet/internal/models"

	"github.com/xuri/excelize/v2"
)

// Excel caps worksheet names at 31 characters and rejects a few characters
// that Google Sheets tab names may contain.
const maxWorksheetName = 31

var worksheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// WorksheetName maps a Google Sheets tab name to a name Excel accepts.
func WorksheetName(name string) string {
	name = strings.Trim(worksheetNameReplacer.Replace(name), "'")
	if utf8.RuneCountInString(name) > maxWorksheetName {
		name = strings.Trim(string([]rune(name)[:maxWorksheetName]), "'")
	}
	if strings.TrimSpace(name) == "" {
		return models.DefaultSheetName
	}
	return name
}

// WriteWorkbook writes rows as an .xlsx workbook with a bold header row.
// The worksheet is named after sheetName, made Excel-safe by WorksheetName.
func WriteWorkbook(w io.Writer, rows [][]string, sheetName string) error {
	sheetName = WorksheetName(sheetName)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(models.AppointmentColumns))
	for i, h := range models.AppointmentColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(models.RowWidth)
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, models.RowWidth)
		for j, v := range models.PadRow(row) {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

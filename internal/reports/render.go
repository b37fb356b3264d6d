package reports

import (
	"bytes"
	"fmt"
	"strings"

	"meditrack_backend/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Content types of the rendered documents.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const sheetName = "Report"

// Title is the heading printed on exported reports.
func Title(result models.ReportResult) string {
	return fmt.Sprintf("Report for %s: %s", result.Type, result.FilterLabel)
}

// FileName is the suggested download name for a rendered report.
func FileName(result models.ReportResult, format string) string {
	return fmt.Sprintf("report_%s.%s", result.Type, format)
}

// RenderPDF writes the title followed by one text line per row.
func RenderPDF(result models.ReportResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(Title(result), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(Title(result)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, tr("Details: "+strings.Join(result.Columns, ", ")), "", 1, "L", false, 0, "")

	for _, row := range result.Rows {
		pdf.MultiCell(0, 6, tr(FormatRow(row)), "", "L", false)
	}
	if len(result.Rows) == 0 {
		pdf.CellFormat(0, 6, "No data available.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderXLSX writes a header row followed by the data rows on a single sheet.
func RenderXLSX(result models.ReportResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}

	header := make([]interface{}, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for i, row := range result.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write report row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet report: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatRow renders a result row as a single line.
func FormatRow(row []interface{}) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			parts[i] = "-"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " | ")
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
)

// SheetName sheet holding the results
const SheetName = "Results"

var header = []string{"#", "Channel", "Date", "Snippet", "Link"}

type excelExporter struct{}

// NewExcelExporter results as an .xlsx workbook
func NewExcelExporter() repository.ResultExporter {
	return &excelExporter{}
}

func (e *excelExporter) FileExtension() string {
	return ".xlsx"
}

// Export one row per result under a bold header. Public links are clickable,
// the link cell stays blank for channels without a username.
func (e *excelExporter) Export(results []entity.SearchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range results {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		link := ""
		if r.HasLink() {
			link = r.Link
		}
		values := []any{i + 1, r.Channel, r.Date, r.Snippet, link}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if link != "" {
			linkCell, _ := excelize.CoordinatesToCellName(5, row)
			if err := f.SetCellHyperLink(SheetName, linkCell, r.Link, "External"); err != nil {
				return nil, fmt.Errorf("failed to link row %d: %w", row, err)
			}
		}
	}

	for col, width := range map[string]float64{"A": 6, "B": 24, "C": 16, "D": 80, "E": 32} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

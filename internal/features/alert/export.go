package alert

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"ID", "Project", "Phase", "Step", "Section", "Line Item", "Responsible",
	"Priority", "Status", "Assigned To", "Acknowledged", "Created",
}

// ExportAlerts renders the filtered list as an xlsx workbook.
func (s *AlertServiceImpl) ExportAlerts(ctx context.Context, filter AlertFilter) ([]byte, string, error) {
	alerts, err := s.ListAlerts(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Alerts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, a := range alerts {
		project := a.ProjectID
		if name, ok := a.Metadata["projectName"].(string); ok && name != "" {
			project = name
		}
		row := []interface{}{
			a.ID.Hex(), project, a.Phase, a.StepName, a.Section, a.LineItem, a.ResponsibleRole,
			string(a.Priority), string(a.Status), a.AssignedTo, a.Acknowledged,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", err
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("alerts_%s.xlsx", s.now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

package export

import (
	"dashboard/src/deadlines"
	"dashboard/src/schemas"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	BoardSheet      = "Deadlines"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var boardHeaders = []string{"Report", "Slug", "Role", "Cadence", "Schedule", "Deadline", "Countdown", "Overdue"}

// BoardXLSX renders a user's board as a single sheet. Deadlines are written
// as text in the display zone, since spreadsheet dates carry no zone.
func BoardXLSX(board []schemas.ReportDeadline, zoneName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", BoardSheet); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(BoardSheet, "A1", fmt.Sprintf("Deadlines shown in %s", zoneName)); err != nil {
		return nil, err
	}
	for i, header := range boardHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(BoardSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, entry := range board {
		deadline := ""
		if entry.Deadline != nil {
			deadline = entry.Deadline.Format(deadlines.DisplayLayout)
		}
		values := []interface{}{
			entry.Name,
			entry.Slug,
			entry.Role,
			entry.Cadence,
			entry.Schedule,
			deadline,
			entry.Countdown,
			entry.IsOverdue,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(BoardSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := applyBoardStyles(f, len(board)); err != nil {
		return nil, err
	}
	return f, nil
}

func applyBoardStyles(f *excelize.File, rows int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Border: border,
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(boardHeaders))
	if err != nil {
		return err
	}
	if err := f.MergeCell(BoardSheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(BoardSheet, "A1", lastCol+"2", headerStyle); err != nil {
		return err
	}

	if rows > 0 {
		dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(BoardSheet, "A3", fmt.Sprintf("%s%d", lastCol, rows+2), dataStyle); err != nil {
			return err
		}
	}

	return f.SetColWidth(BoardSheet, "A", lastCol, 22)
}

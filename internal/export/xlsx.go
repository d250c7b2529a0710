// Package export renders ticket listings into spreadsheet files for the
// report download endpoint.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/ticket-activity/internal/model"
)

// ContentType is the MIME type of the generated file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Tickets"

// column headers and widths, in output order.
var columns = []struct {
	header string
	width  float64
}{
	{"Ticket ID", 16},
	{"Category", 18},
	{"Type", 14},
	{"Status", 14},
	{"Activity", 30},
	{"Detail Activity", 40},
	{"Created By", 22},
	{"Created By Email", 28},
	{"Executor", 22},
	{"Executor Email", 28},
	{"Start Date", 20},
	{"End Date", 20},
}

const dateLayout = "2006-01-02 15:04:05"

// Tickets renders the rows into an xlsx workbook: shaded, bordered
// header row, bordered cells, fixed column widths.  The same rows the
// filtered listing would return must be passed in; this function does
// no filtering of its own.
func Tickets(tickets []model.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, err
		}
		cell := fmt.Sprintf("%s1", name)
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, t := range tickets {
		rowNum := i + 2
		values := []any{
			t.TicketID,
			t.Category,
			t.Type,
			t.Status,
			t.Activity,
			strOrEmpty(t.DetailActivity),
			t.CreatedByName,
			t.CreatedByEmail,
			strOrEmpty(t.UserNameExecutor),
			strOrEmpty(t.UserEmail),
			t.StartDate.Format(dateLayout),
			timeOrEmpty(t.EndDate),
		}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName,
			fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), cellStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

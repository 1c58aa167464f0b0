package logsource

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kqlbench/kqlbench/internal/models"
)

// FormatTable renders a result table as aligned text: a header row, a dashed
// separator, and " | " separated cells. Nil cells render as NULL. Log data is
// frequently non-ASCII, so column widths are computed with display width
// rather than byte length.
func FormatTable(t models.ResultTable) string {
	if len(t.Columns) == 0 || len(t.Rows) == 0 {
		return "No data returned"
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c)
	}

	cells := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = make([]string, len(t.Columns))
		for j := range t.Columns {
			s := "NULL"
			if j < len(row) && row[j] != nil {
				s = formatCell(row[j])
			}
			cells[i][j] = s
			if w := runewidth.StringWidth(s); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var sb strings.Builder
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = runewidth.FillRight(c, widths[i])
	}
	headerLine := strings.TrimRight(strings.Join(header, " | "), " ")
	sb.WriteString(headerLine)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", runewidth.StringWidth(headerLine)))

	for _, row := range cells {
		padded := make([]string, len(row))
		for j, s := range row {
			padded[j] = runewidth.FillRight(s, widths[j])
		}
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(strings.Join(padded, " | "), " "))
	}
	return sb.String()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Avoid "1e+06" style output for counts that came back as floats.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

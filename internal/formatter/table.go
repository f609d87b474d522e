package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tableSepWidth = 2

// CalculateNaturalTableWidth calculates the width needed for a PATH/VALUE
// table without truncation (path + separator + value).
func CalculateNaturalTableWidth(rows [][]string) int {
	maxPathWidth := len("PATH")
	maxValWidth := len("VALUE")

	for _, row := range rows {
		if len(row) > 0 {
			if w := cellWidth(row[0]); w > maxPathWidth {
				maxPathWidth = w
			}
		}
		if len(row) > 1 {
			if w := cellWidth(row[1]); w > maxValWidth {
				maxValWidth = w
			}
		}
	}

	return maxPathWidth + tableSepWidth + maxValWidth
}

// RenderRows prints a two-column PATH/VALUE table for precomputed rows with
// fixed column widths. pathColWidth 0 defaults to 30; valueColWidth 0
// defaults to 20.
func RenderRows(rows [][]string, noColor bool, pathColWidth, valueColWidth int) string {
	minValueWidth := 20
	sep := strings.Repeat(" ", tableSepWidth)

	pathWidth := pathColWidth
	if pathWidth <= 0 {
		pathWidth = 30
	}

	valueWidth := valueColWidth
	if valueWidth < minValueWidth {
		valueWidth = minValueWidth
	}

	var b strings.Builder
	writeTableHeader(&b, pathWidth, valueWidth, sep, noColor)
	for _, row := range rows {
		writeTableRow(&b, row, pathWidth, valueWidth, sep, noColor)
	}
	return b.String()
}

// RenderRowsFitContent renders a PATH/VALUE table sized to its content.
// maxWidth limits the table width (0 = no limit); when content exceeds it
// the path column is capped at 30% and the value column takes the rest.
func RenderRowsFitContent(rows [][]string, noColor bool, maxWidth int) string {
	sep := strings.Repeat(" ", tableSepWidth)

	pathWidth := len("PATH")
	valueWidth := len("VALUE")
	for _, row := range rows {
		if len(row) > 0 {
			if w := cellWidth(row[0]); w > pathWidth {
				pathWidth = w
			}
		}
		if len(row) > 1 {
			if w := cellWidth(row[1]); w > valueWidth {
				valueWidth = w
			}
		}
	}

	if maxWidth > 0 && pathWidth+tableSepWidth+valueWidth > maxWidth {
		available := maxWidth - tableSepWidth
		if available < 10 {
			available = 10
		}
		maxPathAlloc := available * 30 / 100
		if maxPathAlloc < 5 {
			maxPathAlloc = 5
		}
		if pathWidth > maxPathAlloc {
			pathWidth = maxPathAlloc
		}
		valueWidth = available - pathWidth
		if valueWidth < 5 {
			valueWidth = 5
		}
	}

	var b strings.Builder
	writeTableHeader(&b, pathWidth, valueWidth, sep, noColor)
	for _, row := range rows {
		writeTableRow(&b, row, pathWidth, valueWidth, sep, noColor)
	}
	return b.String()
}

func writeTableHeader(b *strings.Builder, pathWidth, valueWidth int, sep string, noColor bool) {
	headerPath := padRight("PATH", pathWidth)
	headerValue := padRight("VALUE", valueWidth)
	if !noColor {
		headerPath = headerStyle.Render(headerPath)
		headerValue = headerStyle.Render(headerValue)
	}
	b.WriteString(headerPath + sep + headerValue + "\n")

	separator := strings.Repeat("─", pathWidth+tableSepWidth+valueWidth)
	if !noColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator + "\n")
}

func writeTableRow(b *strings.Builder, row []string, pathWidth, valueWidth int, sep string, noColor bool) {
	path := ""
	val := ""
	if len(row) > 0 {
		path = row[0]
	}
	if len(row) > 1 {
		val = row[1]
	}
	pathStr := padRight(truncate(path, pathWidth), pathWidth)
	valStr := padRight(truncate(val, valueWidth), valueWidth)
	if !noColor {
		pathStr = keyStyle.Render(pathStr)
		valStr = valueStyle.Render(valStr)
	}
	b.WriteString(pathStr + sep + valStr + "\n")
}

func cellWidth(s string) int {
	return runewidth.StringWidth(s)
}

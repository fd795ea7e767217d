package report

import (
	"strings"

	"statement_insight/pkg/core/calc"
)

// MarkdownTable serializes the enriched rows as a pipe table, columns in
// display order.
func MarkdownTable(rows []calc.StatementRow) string {
	var sb strings.Builder

	titles := make([]string, len(Columns))
	aligns := make([]string, len(Columns))
	for i, c := range Columns {
		titles[i] = c.Title
		if c.Format == "text" {
			aligns[i] = ":---"
		} else {
			aligns[i] = "---:"
		}
	}
	writeMarkdownRow(&sb, titles)
	writeMarkdownRow(&sb, aligns)

	for _, r := range rows {
		writeMarkdownRow(&sb, FormatRow(r))
	}
	return sb.String()
}

// KeyValueTable renders a two-column markdown table.
func KeyValueTable(keyTitle, valueTitle string, pairs [][2]string) string {
	var sb strings.Builder
	writeMarkdownRow(&sb, []string{keyTitle, valueTitle})
	writeMarkdownRow(&sb, []string{":---", ":---"})
	for _, p := range pairs {
		writeMarkdownRow(&sb, []string{p[0], p[1]})
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(escapeCell(c))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

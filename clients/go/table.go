package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vaarthai/vithai/internal/i18n"
	"github.com/vaarthai/vithai/internal/models"
)

// messageRow is one line of a message table. Depth 1 marks a sub-message.
type messageRow struct {
	Message models.Message
	Depth   int
}

// renderMessages draws id, title, date and duration columns with headers in
// lang. Sub-messages are indented under their container.
func renderMessages(lang models.Language, rows []messageRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault // headings arrive already cased
	tw.AppendHeader(table.Row{
		"#",
		"ID",
		i18n.Heading(lang, "title"),
		i18n.Heading(lang, "date"),
		i18n.Heading(lang, "duration"),
	})

	for i, row := range rows {
		title := row.Message.Title
		if row.Depth > 0 {
			title = "  └ " + title
		}
		if row.Message.Subtitle != "" {
			title += "\n" + text.Faint.Sprint(row.Message.Subtitle)
		}
		tw.AppendRow(table.Row{i + 1, row.Message.ID, title, row.Message.Date, row.Message.Duration})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// treeRows lists every top-level message followed by its sub-messages.
func treeRows(messages []models.Message) []messageRow {
	rows := make([]messageRow, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, messageRow{Message: m})
		for _, sub := range m.SubMessages {
			rows = append(rows, messageRow{Message: sub, Depth: 1})
		}
	}
	return rows
}

func flatRows(messages []models.Message) []messageRow {
	rows := make([]messageRow, len(messages))
	for i, m := range messages {
		rows[i] = messageRow{Message: m}
	}
	return rows
}

// renderPairs draws a two-column key/value table.
func renderPairs(pairs [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	for _, p := range pairs {
		tw.AppendRow(table.Row{text.Bold.Sprint(p[0]), p[1]})
	}
	return tw.Render()
}

package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"yashubustudio/profitprophet/prophet"
)

// newTableWriter returns a rounded table with the given header. Columns
// listed in right (1-based) are right aligned; headers stay left aligned.
func newTableWriter(header table.Row, right ...int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, len(header))
	for i := range header {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	for _, n := range right {
		if n >= 1 && n <= len(configs) {
			configs[n-1].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)
	return tw
}

func renderFieldSummary(fields []prophet.FieldSummary) string {
	tw := newTableWriter(table.Row{"Field", "Weight (%)", "Vocabulary"}, 2, 3)
	for _, f := range fields {
		tw.AppendRow(table.Row{f.Name, strconv.FormatFloat(f.Weight, 'f', -1, 64), f.Vocabulary})
	}
	return tw.Render()
}

// runStat is one labelled value of the run summary.
type runStat struct {
	label string
	value string
}

func renderRunStats(runID string, stats []runStat) string {
	tw := newTableWriter(table.Row{"Run", runID}, 2)
	for _, s := range stats {
		tw.AppendRow(table.Row{s.label, s.value})
	}
	return tw.Render()
}

// renderColumns lists a file header with its "#N" indices and marks the
// columns that are weighted fields.
func renderColumns(header []string, weighted map[string]struct{}) string {
	tw := newTableWriter(table.Row{"Index", "Column", "Weighted"}, 1)
	for i, col := range header {
		mark := ""
		if _, ok := weighted[col]; ok {
			mark = "yes"
		}
		tw.AppendRow(table.Row{"#" + strconv.Itoa(i+1), col, mark})
	}
	return tw.Render()
}

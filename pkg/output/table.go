package output

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Table is tabular data with optional headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// TableFormatter formats Table values using pterm.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Supports returns true for a non-nil *Table.
func (f *TableFormatter) Supports(data interface{}) bool {
	t, ok := data.(*Table)
	return ok && t != nil
}

// Format formats the data as a table and writes it to the writer.
func (f *TableFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	t, ok := data.(*Table)
	if !ok || t == nil {
		return fmt.Errorf("unsupported data type for table formatting: %T", data)
	}

	showHeaders := config.ShowHeaders && len(t.Headers) > 0

	var tableData pterm.TableData
	if showHeaders {
		tableData = append(tableData, t.Headers)
	}
	tableData = append(tableData, t.Rows...)

	if len(tableData) == 0 {
		return nil
	}

	table := pterm.DefaultTable.WithHasHeader(showHeaders).WithData(tableData)

	if config.Colors {
		table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		pterm.DisableColor()
		defer pterm.EnableColor()
	}

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err = io.WriteString(w, rendered+"\n")
	return err
}

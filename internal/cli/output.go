package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
}

// tableData is the table rendering of a value
type tableData struct {
	header []string
	rows   [][]string
	footer string
}

// render writes v in format. The table form is built lazily.
func render(w io.Writer, format string, v interface{}, table func() tableData) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	data := table()
	t := tablewriter.NewWriter(w)
	t.SetHeader(data.header)
	t.SetAutoWrapText(false)
	t.AppendBulk(data.rows)
	t.Render()
	if data.footer != "" {
		_, err := fmt.Fprintln(w, data.footer)
		return err
	}
	return nil
}

// keyValues renders label/value pairs as a two column table
func keyValues(pairs ...string) tableData {
	data := tableData{header: []string{"Field", "Value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		value := pairs[i+1]
		if value == "" {
			value = "-"
		}
		data.rows = append(data.rows, []string{pairs[i], value})
	}
	return data
}

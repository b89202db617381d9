package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/tui"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func parseOutput(s string) (outputFormat, error) {
	switch outputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", outputTable:
		return outputTable, nil
	case outputJSON:
		return outputJSON, nil
	case outputYAML, "yml":
		return outputYAML, nil
	}
	return "", fmt.Errorf("invalid output format %q (use table, json or yaml)", s)
}

func writeItems[S, D any](w io.Writer, format outputFormat, kind entity.Kind[S, D], items []S) error {
	switch format {
	case outputJSON:
		if items == nil {
			items = []S{}
		}
		return encodeJSON(w, items)
	case outputYAML:
		if items == nil {
			items = []S{}
		}
		return encodeYAML(w, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, kind.Empty)
		return nil
	}
	widths := make([]int, len(kind.Columns))
	for i, col := range kind.Columns {
		widths[i] = col.Width
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, kind.Row(item))
	}
	fmt.Fprintln(w, tui.Table(kind.Headers(), widths, rows))
	return nil
}

func writeDetail[S, D any](w io.Writer, format outputFormat, kind entity.Kind[S, D], record D, imageBase string) error {
	switch format {
	case outputJSON:
		return encodeJSON(w, record)
	case outputYAML:
		return encodeYAML(w, record)
	}

	var b strings.Builder
	if kind.Sections != nil {
		for _, section := range kind.Sections(record) {
			writeSection(&b, section)
			b.WriteByte('\n')
		}
	}
	if kind.Description != nil {
		fmt.Fprintf(&b, "Description\n  %s\n\n", kind.Description(record))
	}
	if kind.Galleries != nil {
		for _, g := range kind.Galleries(record) {
			fmt.Fprintln(&b, g.Title)
			if len(g.Images) == 0 {
				fmt.Fprintf(&b, "  %s\n", g.Empty)
			}
			for i, img := range g.Images {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, tui.ImageURL(imageBase, img))
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

func writeSection(b *strings.Builder, s entity.Section) {
	labelWidth := 0
	for _, field := range s.Fields {
		labelWidth = max(labelWidth, len(field.Label)+1)
	}
	fmt.Fprintln(b, s.Title)
	for _, field := range s.Fields {
		fmt.Fprintf(b, "  %-*s %s\n", labelWidth, field.Label+":", field.Value)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Azure/azmgmt/internal/config"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Table is the tabular rendering of a command result.
type Table struct {
	Header []string
	Rows   [][]string
}

// Append adds a row to t.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Print writes v to the output of cmd in the configured format. The table format renders t; json and yaml
// render v using its JSON field names.
func Print(cmd *cobra.Command, v any, t *Table) error {
	format := config.OutputTable
	if s := SessionFromContext(cmd.Context()); s != nil && s.Config != nil {
		format = s.Config.Output
	}

	return Write(cmd.OutOrStdout(), format, v, t)
}

// Write renders v or t to w in format.
func Write(w io.Writer, format config.Output, v any, t *Table) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("cli.Write: %w", err)
		}

		return nil
	case config.OutputYAML:
		return writeYAML(w, v)
	default:
		if t == nil {
			return writeYAML(w, v)
		}

		writeTable(w, t)

		return nil
	}
}

func writeYAML(w io.Writer, v any) error {
	// round trip through JSON so the output uses the JSON field names of the models
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cli.Write: %w", err)
	}

	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return fmt.Errorf("cli.Write: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("cli.Write: %w", err)
	}

	return enc.Close() //nolint:wrapcheck
}

func writeTable(w io.Writer, t *Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(t.Rows)
	table.Render()
}

// Tags renders tags as sorted k=v pairs.
func Tags(tags map[string]*string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))

	for _, k := range keys {
		v := ""
		if tags[k] != nil {
			v = *tags[k]
		}

		pairs = append(pairs, k+"="+v)
	}

	return strings.Join(pairs, ",")
}

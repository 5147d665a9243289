package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type outputOptions struct {
	Format string
	Query  string
}

func (o *outputOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Format, "output", "o", formatTable, "Output format: table, json or yaml")
	fs.StringVarP(&o.Query, "query", "q", "", "JMESPath expression applied to json/yaml output")
}

func writeItems(w io.Writer, out outputOptions, res backendResource, items []any) error {
	if out.Format == formatTable && out.Query == "" {
		return writeTable(w, res, items)
	}
	return writeValue(w, out, items)
}

func writeTable(w io.Writer, res backendResource, items []any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.header(), "\t"))
	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(res.row(item), "\t"))
	}
	return tw.Flush()
}

// writeValue prints v as JSON or YAML. The value takes a JSON round trip
// first so the wire field names apply and JMESPath sees plain maps.
func writeValue(w io.Writer, out outputOptions, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	if out.Query != "" {
		if _, err := jmespath.Compile(out.Query); err != nil {
			return fmt.Errorf("invalid --query: %w", err)
		}
		doc, err = jmespath.Search(out.Query, doc)
		if err != nil {
			return fmt.Errorf("evaluate --query: %w", err)
		}
	}

	switch out.Format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
		return enc.Close()
	case formatJSON, formatTable:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown output format %q", out.Format)
	}
}

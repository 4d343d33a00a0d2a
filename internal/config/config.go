package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filter is one parsed key=value filter from the command line. Filters
// keep their command-line order; the process scope filter consults only
// the first entry.
type Filter struct {
	Key   string
	Value string
}

// ComputedColumn is a table column whose cell value is an expression
// evaluated against each event.
type ComputedColumn struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expr"`
}

// Config holds the resolved command-line configuration.
type Config struct {
	// HTTPStatsOnly activates HTTP call-count mode.
	HTTPStatsOnly bool
	// HTTPLatencyStatsOnly activates HTTP latency mode.
	HTTPLatencyStatsOnly bool
	// ParsedFilters are the key=value filters in command-line order.
	ParsedFilters []Filter
	// Fields are the event fields printed by the tabular printer.
	Fields []string
	// Columns are computed columns appended after Fields.
	Columns []ComputedColumn
	// Raw prints each event as a single descriptive line.
	Raw bool
	// Stats selects generic count aggregations: "name", "process".
	Stats []string
	// Input is the replay file to read events from; empty means stdin.
	Input string
	// OTLP re-emits resolved HTTP correlations as OpenTelemetry spans.
	OTLP bool
}

// ParseFilters parses raw "key=value" strings, preserving order.
func ParseFilters(raw []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(raw))
	for _, s := range raw {
		key, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", s)
		}
		filters = append(filters, Filter{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return filters, nil
}

// ParseColumns parses raw "name=expression" strings into computed
// columns.
func ParseColumns(raw []string) ([]ComputedColumn, error) {
	columns := make([]ComputedColumn, 0, len(raw))
	for _, s := range raw {
		name, expression, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(expression) == "" {
			return nil, fmt.Errorf("invalid column %q: expected name=expression", s)
		}
		columns = append(columns, ComputedColumn{
			Name:       strings.TrimSpace(name),
			Expression: strings.TrimSpace(expression),
		})
	}
	return columns, nil
}

// LoadColumnsFile reads computed column definitions from a YAML file.
// Format:
//
//	columns:
//	  - name: host
//	    expr: fields["url"]
func LoadColumnsFile(path string) ([]ComputedColumn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading columns file: %w", err)
	}

	var doc struct {
		Columns []ComputedColumn `yaml:"columns"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing columns file %s: %w", path, err)
	}

	for _, col := range doc.Columns {
		if col.Name == "" || col.Expression == "" {
			return nil, fmt.Errorf("columns file %s: every column needs name and expr", path)
		}
	}
	return doc.Columns, nil
}

// Validate checks cross-flag invariants that the flag parser cannot
// express on its own.
func (c *Config) Validate() error {
	if c.HTTPStatsOnly && c.HTTPLatencyStatsOnly {
		return fmt.Errorf("--http-stats and --http-latency-stats are mutually exclusive")
	}
	for _, s := range c.Stats {
		if s != "name" && s != "process" {
			return fmt.Errorf("unknown stats dimension %q: expected name or process", s)
		}
	}
	if c.OTLP && !c.HTTPLatencyStatsOnly {
		return fmt.Errorf("--otlp requires --http-latency-stats")
	}
	return nil
}

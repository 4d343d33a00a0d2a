package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters([]string{"ProcessId=42", "EventName=GC/Start"})
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, Filter{Key: "ProcessId", Value: "42"}, filters[0])
	assert.Equal(t, Filter{Key: "EventName", Value: "GC/Start"}, filters[1])
}

func TestParseFilters_Invalid(t *testing.T) {
	_, err := ParseFilters([]string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = ParseFilters([]string{"=value"})
	assert.Error(t, err)
}

func TestParseColumns(t *testing.T) {
	columns, err := ParseColumns([]string{`host=fields["url"]`})
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "host", columns[0].Name)
	assert.Equal(t, `fields["url"]`, columns[0].Expression)
}

func TestParseColumns_Invalid(t *testing.T) {
	_, err := ParseColumns([]string{"nameonly"})
	assert.Error(t, err)

	_, err = ParseColumns([]string{"name="})
	assert.Error(t, err)
}

func TestLoadColumnsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	content := `columns:
  - name: host
    expr: fields["url"]
  - name: double
    expr: pid * 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	columns, err := LoadColumnsFile(path)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, ComputedColumn{Name: "host", Expression: `fields["url"]`}, columns[0])
	assert.Equal(t, ComputedColumn{Name: "double", Expression: "pid * 2"}, columns[1])
}

func TestLoadColumnsFile_MissingExpr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  - name: broken\n"), 0o644))

	_, err := LoadColumnsFile(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "empty config is valid",
		},
		{
			name: "latency mode alone",
			cfg:  Config{HTTPLatencyStatsOnly: true},
		},
		{
			name:    "both http modes",
			cfg:     Config{HTTPStatsOnly: true, HTTPLatencyStatsOnly: true},
			wantErr: true,
		},
		{
			name: "known stats dimensions",
			cfg:  Config{Stats: []string{"name", "process"}},
		},
		{
			name:    "unknown stats dimension",
			cfg:     Config{Stats: []string{"thread"}},
			wantErr: true,
		},
		{
			name: "otlp with latency mode",
			cfg:  Config{HTTPLatencyStatsOnly: true, OTLP: true},
		},
		{
			name:    "otlp without latency mode",
			cfg:     Config{OTLP: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

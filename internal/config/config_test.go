package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoad_defaults verifies that a missing config file falls back to defaults.
func TestLoad_defaults(t *testing.T) {
	cfg, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "xlsx", cfg.Source.Format)
	assert.Equal(t, "BASE.xlsx", cfg.Source.Path)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 1, cfg.CSV.HeaderRows)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

// TestLoad_fileThenEnv verifies that environment variables win over the file.
func TestLoad_fileThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
source:
  kind: http
  url: https://example.com/BASE.csv
  format: csv
csv:
  delimiter: ";"
http:
  retries: 3
`)
	t.Setenv("FREIGHT_CSV_ENCODING", "Windows-1252")
	t.Setenv("FREIGHT_HTTP_TIMEOUT", "5s")

	cfg, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Source.Kind)
	assert.Equal(t, "https://example.com/BASE.csv", cfg.Source.URL)
	assert.Equal(t, "csv", cfg.Source.Format)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "Windows-1252", cfg.CSV.Encoding)
	assert.Equal(t, 3, cfg.HTTP.Retries)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_rejectsUnusableSource(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown format": {"FREIGHT_SOURCE_FORMAT": "ods"},
		"unknown kind":   {"FREIGHT_SOURCE_KIND": "ftp"},
		"s3 without key": {"FREIGHT_SOURCE_KIND": "s3", "FREIGHT_SOURCE_BUCKET": "b"},
		"bad url":        {"FREIGHT_SOURCE_KIND": "http", "FREIGHT_SOURCE_URL": "BASE.csv"},
		"bad encoding":   {"FREIGHT_CSV_ENCODING": "EBCDIC"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.NewViper(), "")
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestDefaultColumnMapping(t *testing.T) {
	m := config.DefaultColumnMapping()

	assert.Equal(t, 4, m.Version)
	assert.Equal(t, "FRETE MÁQUINAS", m.Sheet)
	assert.Equal(t, []string{"ESTÁ:", "ESTÃO EM:"}, m.Aliases(config.FieldOrigin))
	assert.Equal(t, []string{"R$ PROP", "R$ PRÓPRIO", "PROPRIO"}, m.Aliases(config.FieldCostOwn))
	assert.Equal(t, types.KnownCities(), m.CityList())

	// EQUIP holds the machine category, never a chassis number.
	assert.Equal(t, []string{"CHASSI"}, m.Aliases(config.FieldChassis))
	assert.Equal(t, []string{"EQUIP", "EQUIPAMENTO"}, m.Aliases(config.FieldEquipment))
	assert.Contains(t, m.Aliases(config.FieldLocation), "VAI PARA:")

	for _, f := range config.RequiredFields {
		assert.NotEmpty(t, m.Aliases(f), "field %s", f)
	}
}

func TestLoadColumnMapping_overrideInheritsDefaults(t *testing.T) {
	path := writeFile(t, "columns.yaml", `
version: 4
columns:
  expected_date: ["DATA PREVISTA", "PREV"]
  cost_city: ["  CENTRO DE CUSTO ", ""]
cities: [CASTRO, LAPA]
`)

	m, err := config.LoadColumnMapping(path)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Version)
	assert.Equal(t, []string{"DATA PREVISTA", "PREV"}, m.Aliases(config.FieldExpectedDate))
	assert.Equal(t, []string{"CENTRO DE CUSTO"}, m.Aliases(config.FieldCostCity))
	assert.Equal(t, []string{"STATUS"}, m.Aliases(config.FieldStatus))
	assert.Equal(t, []types.City{"CASTRO", "LAPA"}, m.CityList())
}

func TestLoadColumnMapping_invalid(t *testing.T) {
	cases := map[string]string{
		"no version":    "columns:\n  status: [STATUS]\n",
		"unknown field": "version: 1\ncolumns:\n  colour: [COR]\n",
		"dup city":      "version: 1\ncities: [CASTRO, CASTRO]\n",
		"broken yaml":   "version: [\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadColumnMapping(writeFile(t, "columns.yaml", body))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoadColumnMapping_emptyPathUsesDefault(t *testing.T) {
	m, err := config.LoadColumnMapping("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultColumnMapping(), m)
}

package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/freight-tracker/internal/textnorm"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// =============================================================================
// LOGICAL FIELDS
// =============================================================================

// Field names one logical column of a transport request.
type Field string

const (
	FieldKey            Field = "key"
	FieldStatus         Field = "status"
	FieldCarrierMode    Field = "carrier_mode"
	FieldHours          Field = "hours"
	FieldDistance       Field = "distance"
	FieldCostOwn        Field = "cost_own"
	FieldCostThirdParty Field = "cost_third_party"
	FieldChassis        Field = "chassis"
	FieldEquipment      Field = "equipment"
	FieldExpectedDate   Field = "expected_date"
	FieldActualDate     Field = "actual_date"
	FieldInvoice        Field = "invoice"
	FieldRequester      Field = "requester"
	FieldOrigin         Field = "origin"
	FieldDestination    Field = "destination"
	FieldLocation       Field = "location"
	FieldCostCity       Field = "cost_city"
	FieldKind           Field = "kind"
	FieldNotes          Field = "notes"
)

// AllFields lists every logical field the normalizer reads.
var AllFields = []Field{
	FieldKey, FieldStatus, FieldCarrierMode, FieldHours, FieldDistance,
	FieldCostOwn, FieldCostThirdParty, FieldChassis, FieldEquipment,
	FieldExpectedDate, FieldActualDate, FieldInvoice, FieldRequester,
	FieldOrigin, FieldDestination, FieldLocation, FieldCostCity, FieldKind,
	FieldNotes,
}

// RequiredFields must be present in every export for the dashboards to work.
// A dataset missing one still loads; the header check reports it.
var RequiredFields = []Field{
	FieldStatus,
	FieldExpectedDate,
	FieldChassis,
	FieldCostOwn,
	FieldCostThirdParty,
	FieldOrigin,
	FieldDestination,
	FieldCostCity,
}

// =============================================================================
// COLUMN MAPPING
// =============================================================================

//go:embed columns.yaml
var defaultColumnsYAML []byte

// ColumnMapping is the versioned header table shared by every source format.
//
// EXAMPLE (YAML):
//
//	version: 3
//	sheet: "FRETE MÁQUINAS"
//	columns:
//	  expected_date: ["PREV", "PREVISÃO"]
//	cities: [CASTRO, IRATI]
//
// Fields left out of an override file inherit the built-in aliases.
type ColumnMapping struct {
	// Version identifies the export layout the mapping was written for.
	Version int `yaml:"version"`

	// Name is a human label used in logs.
	Name string `yaml:"name"`

	// Sheet is the workbook sheet holding the requests (XLSX sources only).
	Sheet string `yaml:"sheet"`

	// Columns maps each logical field to its header aliases, in priority order.
	Columns map[Field][]string `yaml:"columns"`

	// Cities is the ordered branch list used for canonicalization and roll-ups.
	Cities []string `yaml:"cities"`
}

// DefaultColumnMapping returns the built-in mapping.
// It panics only if the embedded file is broken, which the tests guard.
func DefaultColumnMapping() *ColumnMapping {
	m, err := parseColumnMapping(defaultColumnsYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded column mapping is invalid: %v", err))
	}
	return m
}

// LoadColumnMapping reads a mapping override from a YAML file.
//
// PARAMETERS:
//   - path: file to read. An empty path returns the built-in mapping.
//
// RETURNS:
//   - The mapping with defaults applied and validated.
//   - An error wrapping ErrInvalidConfig if the file is malformed.
func LoadColumnMapping(path string) (*ColumnMapping, error) {
	if path == "" {
		return DefaultColumnMapping(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column mapping: %w", err)
	}

	m, err := parseColumnMapping(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load column mapping %s: %w", path, err)
	}

	m.inherit(DefaultColumnMapping())
	return m, nil
}

func parseColumnMapping(data []byte) (*ColumnMapping, error) {
	var m ColumnMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalidConfig, err)
	}

	m.applyDefaults()

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &m, nil
}

// applyDefaults trims aliases and fills the values every mapping needs.
func (m *ColumnMapping) applyDefaults() {
	if m.Columns == nil {
		m.Columns = make(map[Field][]string)
	}
	if m.Sheet == "" {
		m.Sheet = "FRETE MÁQUINAS"
	}
	if m.Name == "" {
		m.Name = fmt.Sprintf("mapping-v%d", m.Version)
	}

	for field, aliases := range m.Columns {
		cleaned := make([]string, 0, len(aliases))
		for _, a := range aliases {
			if a = strings.TrimSpace(a); a != "" {
				cleaned = append(cleaned, a)
			}
		}
		m.Columns[field] = cleaned
	}
}

// inherit copies aliases and cities from base for anything m leaves out.
func (m *ColumnMapping) inherit(base *ColumnMapping) {
	if base == nil {
		return
	}
	for _, field := range AllFields {
		if len(m.Columns[field]) == 0 && len(base.Columns[field]) > 0 {
			m.Columns[field] = slices.Clone(base.Columns[field])
		}
	}
	if len(m.Cities) == 0 {
		m.Cities = slices.Clone(base.Cities)
	}
}

// validate rejects unknown fields and an unusable version.
func (m *ColumnMapping) validate() error {
	if m.Version < 1 {
		return fmt.Errorf("column mapping version must be at least 1, got %d", m.Version)
	}

	for field := range m.Columns {
		if !slices.Contains(AllFields, field) {
			return fmt.Errorf("unknown column field %q", field)
		}
	}

	seen := make(map[string]bool)
	for _, c := range m.Cities {
		key := strings.TrimSpace(c)
		if key == "" {
			return fmt.Errorf("city list contains a blank entry")
		}
		if seen[key] {
			return fmt.Errorf("city %q listed twice", key)
		}
		seen[key] = true
	}

	return nil
}

// Aliases returns the header aliases for a field (nil when unmapped).
func (m *ColumnMapping) Aliases(f Field) []string {
	return m.Columns[f]
}

// CityList returns the configured cities, or the fixed branch list.
func (m *ColumnMapping) CityList() []types.City {
	if len(m.Cities) == 0 {
		return types.KnownCities()
	}
	out := make([]types.City, 0, len(m.Cities))
	for _, c := range m.Cities {
		out = append(out, types.City(strings.TrimSpace(c)))
	}
	return out
}

// =============================================================================
// HEADER RESOLUTION
// =============================================================================

// Resolution maps each logical field to the concrete headers of one dataset
// that feed it, in priority order.
type Resolution map[Field][]string

// Resolve matches the mapping against a concrete header row.
//
// For each alias, in order, an exact header match is taken first; failing
// that, headers equal to the alias once accents, case and surrounding space
// are ignored ("Está:" for "ESTÁ:"). Fields with no matching header are
// absent from the result.
func (m *ColumnMapping) Resolve(headers []string) Resolution {
	present := make(map[string]bool, len(headers))
	folded := make([]string, len(headers))
	for i, h := range headers {
		present[h] = true
		folded[i] = textnorm.Fold(h)
	}

	res := make(Resolution)
	for _, field := range AllFields {
		var matched []string
		for _, alias := range m.Columns[field] {
			if present[alias] {
				if !slices.Contains(matched, alias) {
					matched = append(matched, alias)
				}
				continue
			}
			key := textnorm.Fold(alias)
			for i, h := range headers {
				if folded[i] == key && !slices.Contains(matched, h) {
					matched = append(matched, h)
				}
			}
		}
		if len(matched) > 0 {
			res[field] = matched
		}
	}
	return res
}

// Has reports whether any header feeds the field.
func (r Resolution) Has(f Field) bool {
	return len(r[f]) > 0
}

// Mapped returns the set of headers consumed by some field.
func (r Resolution) Mapped() map[string]bool {
	out := make(map[string]bool)
	for _, headers := range r {
		for _, h := range headers {
			out[h] = true
		}
	}
	return out
}

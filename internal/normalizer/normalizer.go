// =============================================================================
// Freight Tracker - Row Normalizer
// =============================================================================
//
// Turns one raw row (header -> raw cell value) into one TransportRequest.
//
// PIPELINE (per row):
//   1. Resolve each logical field to a raw value through the column mapping
//      (first listed header with a non-empty value wins)
//   2. Parse every field independently with the field parsers
//   3. Normalize the status (canonical enum + demonstration flag)
//   4. Canonicalize origin, destination and cost city separately
//   5. Extract the map link: location column, then origin, then destination
//   6. Assign the id: external key column when present, else rowIndex+1
//
// FAILURE SEMANTICS:
//   A malformed row never aborts the batch. It becomes a record with default
//   values. Only nil rows (structurally absent) are skipped.
//
// =============================================================================

package normalizer

import (
	"sort"

	"github.com/ginjaninja78/freight-tracker/internal/city"
	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/parsers"
	"github.com/ginjaninja78/freight-tracker/internal/status"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer is stateless apart from its immutable mapping and city list,
// so one instance may be shared between goroutines.
type Normalizer struct {
	mapping *config.ColumnMapping
	cities  *city.Canonicalizer
}

// New creates a Normalizer. A nil mapping selects the built-in one.
func New(mapping *config.ColumnMapping) *Normalizer {
	if mapping == nil {
		mapping = config.DefaultColumnMapping()
	}
	return &Normalizer{
		mapping: mapping,
		cities:  city.New(mapping.CityList()),
	}
}

// Mapping returns the column mapping in use.
func (n *Normalizer) Mapping() *config.ColumnMapping {
	return n.mapping
}

// Cities returns the ordered city list used for canonicalization.
func (n *Normalizer) Cities() []types.City {
	return n.cities.Cities()
}

// NormalizeAll converts a whole dataset.
//
// The header plan is resolved once from ds.Headers (or, when the source did
// not report headers, from the keys of the rows). Nil rows are skipped but
// still consume their index, so ids stay tied to the input position.
//
// External keys are honoured only when every row carries a distinct one;
// otherwise all ids fall back to rowIndex+1 so they remain unique.
func (n *Normalizer) NormalizeAll(ds *types.Dataset) []types.TransportRequest {
	if ds == nil {
		return []types.TransportRequest{}
	}

	headers := ds.Headers
	if len(headers) == 0 {
		headers = headersOf(ds.Rows)
	}
	plan := n.mapping.Resolve(headers)

	out := make([]types.TransportRequest, 0, len(ds.Rows))
	indexes := make([]int, 0, len(ds.Rows))
	seen := make(map[int]bool, len(ds.Rows))
	keyed := true

	for i, row := range ds.Rows {
		if row == nil {
			continue
		}
		rec, hasKey := n.normalize(plan, row, i)
		if !hasKey || seen[rec.ID] {
			keyed = false
		}
		seen[rec.ID] = true
		out = append(out, rec)
		indexes = append(indexes, i)
	}

	if !keyed {
		for j := range out {
			out[j].ID = indexes[j] + 1
		}
	}
	return out
}

// Normalize converts a single row given its zero-based index.
// The header plan is derived from the row's own keys.
func (n *Normalizer) Normalize(row types.RawRow, index int) types.TransportRequest {
	rec, _ := n.normalize(n.mapping.Resolve(headersOf([]types.RawRow{row})), row, index)
	return rec
}

func (n *Normalizer) normalize(plan config.Resolution, row types.RawRow, index int) (types.TransportRequest, bool) {
	get := func(f config.Field) any {
		return lookup(plan, row, f)
	}

	rawStatus := parsers.Text(get(config.FieldStatus))
	st := status.Normalize(rawStatus)

	origin := parsers.Text(get(config.FieldOrigin))
	destination := parsers.Text(get(config.FieldDestination))

	rec := types.TransportRequest{
		ID:              index + 1,
		Status:          rawStatus,
		StatusCanonical: st.Canonical,
		IsDemo:          st.IsDemo,

		CarrierMode:    parsers.Text(get(config.FieldCarrierMode)),
		DistanceKm:     parsers.Integer(get(config.FieldDistance)),
		CostOwn:        parsers.Currency(get(config.FieldCostOwn)),
		CostThirdParty: parsers.Currency(get(config.FieldCostThirdParty)),

		ChassisList: parsers.SplitMulti(get(config.FieldChassis)),
		Equipment:   parsers.Text(get(config.FieldEquipment)),

		ExpectedDate: parsers.LocalDate(get(config.FieldExpectedDate)),
		ActualDate:   parsers.LocalDate(get(config.FieldActualDate)),

		InvoiceRef: parsers.Text(get(config.FieldInvoice)),
		Requester:  parsers.Text(get(config.FieldRequester)),

		OriginLabel:      origin,
		DestinationLabel: destination,
		OriginCity:       n.cities.Canonicalize(origin),
		DestinationCity:  n.cities.Canonicalize(destination),
		CostCity:         n.cities.Canonicalize(parsers.Text(get(config.FieldCostCity))),

		MapLink: mapLink(append(lookupAll(plan, row, config.FieldLocation), origin, destination)...),
		Notes:   parsers.Text(get(config.FieldNotes)),
		Hours:   parsers.Text(get(config.FieldHours)),
		Kind:    parsers.Text(get(config.FieldKind)),
	}

	key := parsers.Integer(get(config.FieldKey))
	if key > 0 {
		rec.ID = key
	}

	return rec, key > 0
}

// =============================================================================
// HELPERS
// =============================================================================

// lookup returns the first non-blank value among the field's headers.
func lookup(plan config.Resolution, row types.RawRow, f config.Field) any {
	for _, header := range plan[f] {
		if v, ok := row[header]; ok && !parsers.IsBlank(v) {
			return v
		}
	}
	return nil
}

// lookupAll returns every non-blank value among the field's headers, as
// text, in priority order.
func lookupAll(plan config.Resolution, row types.RawRow, f config.Field) []string {
	var out []string
	for _, header := range plan[f] {
		if v, ok := row[header]; ok && !parsers.IsBlank(v) {
			out = append(out, parsers.Text(v))
		}
	}
	return out
}

// mapLink returns the first URL found in priority order.
func mapLink(candidates ...string) string {
	for _, c := range candidates {
		if link := parsers.FirstURL(c); link != "" {
			return link
		}
	}
	return ""
}

// headersOf collects row keys in a deterministic order.
func headersOf(rows []types.RawRow) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

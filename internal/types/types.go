// =============================================================================
// Freight Tracker - Shared Types
// =============================================================================
//
// This package contains the data model shared by every module. Keeping it
// free of logic (beyond small helpers) avoids import cycles between:
//   - normalizer
//   - store
//   - aggregate
//   - report / api
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the canonical status of a transport request.
type Status string

const (
	StatusReceived  Status = "RECEIVED"
	StatusScheduled Status = "SCHEDULED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusSuspended Status = "SUSPENDED"
	StatusCompleted Status = "COMPLETED"

	// StatusUnknown holds anything the taxonomy does not recognise. The raw
	// text is still kept on the record for display.
	StatusUnknown Status = "UNKNOWN"
)

// AllStatuses lists every canonical status in board order.
var AllStatuses = []Status{
	StatusReceived,
	StatusScheduled,
	StatusInTransit,
	StatusSuspended,
	StatusCompleted,
	StatusUnknown,
}

// Label returns the board title shown to operators.
func (s Status) Label() string {
	switch s {
	case StatusReceived:
		return "Recebido"
	case StatusScheduled:
		return "Programado"
	case StatusInTransit:
		return "Em Rota"
	case StatusSuspended:
		return "Suspenso"
	case StatusCompleted:
		return "Concluído"
	default:
		return "Outros"
	}
}

// ParseStatus converts a canonical status name back into a Status.
// It returns false for names outside the enum.
func ParseStatus(name string) (Status, bool) {
	for _, s := range AllStatuses {
		if string(s) == name {
			return s, true
		}
	}
	return StatusUnknown, false
}

// =============================================================================
// CITY
// =============================================================================

// City is the canonical, accented label of a branch city.
// The empty City means "not recognised".
type City string

// Known branch cities in their fixed display order.
const (
	CityPontaGrossa    City = "PONTA GROSSA"
	CityCastro         City = "CASTRO"
	CityIrati          City = "IRATI"
	CityArapoti        City = "ARAPOTI"
	CityGuarapuava     City = "GUARAPUAVA"
	CityPrudentopolis  City = "PRUDENTÓPOLIS"
	CityQuedasDoIguacu City = "QUEDAS DO IGUAÇU"
	CityTibagi         City = "TIBAGI"
)

// KnownCities returns a fresh copy of the fixed city list.
func KnownCities() []City {
	return []City{
		CityPontaGrossa,
		CityCastro,
		CityIrati,
		CityArapoti,
		CityGuarapuava,
		CityPrudentopolis,
		CityQuedasDoIguacu,
		CityTibagi,
	}
}

// =============================================================================
// TRANSPORT REQUEST
// =============================================================================

// NoChassisPlaceholder is displayed when a request has no chassis listed.
const NoChassisPlaceholder = "SEM CHASSI"

// TransportRequest is the canonical record produced by the row normalizer.
// Records are never mutated after a dataset is loaded.
type TransportRequest struct {
	ID              int    `json:"id"`
	Status          string `json:"status"`
	StatusCanonical Status `json:"statusCanonical"`
	IsDemo          bool   `json:"isDemo"`

	CarrierMode    string          `json:"carrierMode"`
	DistanceKm     int             `json:"distanceKm"`
	CostOwn        decimal.Decimal `json:"costOwn"`
	CostThirdParty decimal.Decimal `json:"costThirdParty"`

	ChassisList []string `json:"chassisList"`
	Equipment   string   `json:"equipment,omitempty"`

	ExpectedDate *time.Time `json:"expectedDate,omitempty"`
	ActualDate   *time.Time `json:"actualDate,omitempty"`

	InvoiceRef string `json:"invoiceRef"`
	Requester  string `json:"requester"`

	OriginLabel      string `json:"originLabel"`
	DestinationLabel string `json:"destinationLabel"`
	OriginCity       City   `json:"originCity,omitempty"`
	DestinationCity  City   `json:"destinationCity,omitempty"`
	CostCity         City   `json:"costCity,omitempty"`

	MapLink string `json:"mapLink,omitempty"`
	Notes   string `json:"notes"`
	Hours   string `json:"hours,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// DisplayChassis returns the chassis list, or the placeholder when empty.
func (r TransportRequest) DisplayChassis() []string {
	if len(r.ChassisList) == 0 {
		return []string{NoChassisPlaceholder}
	}
	return r.ChassisList
}

// =============================================================================
// RAW INPUT
// =============================================================================

// RawRow is one extracted spreadsheet/CSV row: column header -> raw cell value.
// Values are string, float64 (or another Go number), time.Time,
// decimal.Decimal or nil. A nil RawRow is a structurally absent row.
type RawRow map[string]any

// Dataset is the raw output of a source before normalization.
type Dataset struct {
	// Headers is the header row in file order.
	Headers []string

	// Rows holds one RawRow per data line.
	Rows []RawRow

	// Origin describes where the rows came from (path, URL, s3 URI).
	Origin string
}

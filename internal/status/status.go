// =============================================================================
// Freight Tracker - Status Taxonomy Normalizer
// =============================================================================
//
// Maps the free-text STATUS column to the canonical status enum plus the
// demonstration flag. The two are independent: "CONCLUIDO (D)" is a completed
// demonstration, "EM ROTA" an operational request in transit.
//
// MATCHING ORDER (first hit wins, accents ignored):
//   CONCLU            -> COMPLETED
//   ROTA / TRANSITO   -> IN_TRANSIT
//   PROGRAM           -> SCHEDULED
//   RECEBIDO          -> RECEIVED
//   SUSPENSO          -> SUSPENDED
//   anything else     -> UNKNOWN
//
// =============================================================================

package status

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/freight-tracker/internal/textnorm"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// demoMarker matches a trailing "(D)" with any spacing or case.
var demoMarker = regexp.MustCompile(`(?i)\s*\(\s*D\s*\)\s*$`)

// keyword pairs a folded substring with the status it selects.
type keyword struct {
	text   string
	status types.Status
}

var keywords = []keyword{
	{"CONCLU", types.StatusCompleted},
	{"ROTA", types.StatusInTransit},
	{"TRANSITO", types.StatusInTransit},
	{"PROGRAM", types.StatusScheduled},
	{"RECEBIDO", types.StatusReceived},
	{"SUSPENSO", types.StatusSuspended},
}

// Result is the outcome of normalizing one raw status.
type Result struct {
	// Canonical is the mapped status (UNKNOWN when nothing matched).
	Canonical types.Status

	// IsDemo is true when the raw text carried the "(D)" marker.
	IsDemo bool

	// Base is the uppercased raw text with the marker removed.
	Base string
}

// Normalize maps a raw status string. It never fails.
func Normalize(raw string) Result {
	text := strings.ToUpper(strings.TrimSpace(raw))

	res := Result{Canonical: types.StatusUnknown}
	if demoMarker.MatchString(text) {
		res.IsDemo = true
		text = strings.TrimSpace(demoMarker.ReplaceAllString(text, ""))
	}
	res.Base = text

	folded := textnorm.Fold(text)
	for _, kw := range keywords {
		if strings.Contains(folded, kw.text) {
			res.Canonical = kw.status
			break
		}
	}

	return res
}

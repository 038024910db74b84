// =============================================================================
// Freight Tracker - City Canonicalizer
// =============================================================================
//
// Finds a known branch city inside free text ("FILIAL PRUDENTOPOLIS - PR",
// a pasted address, a map link label) and returns its accented canonical
// label. Matching is substring containment on diacritic-folded, uppercased
// text; the first city in list order wins.
//
// =============================================================================

package city

import (
	"strings"

	"github.com/ginjaninja78/freight-tracker/internal/textnorm"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// Canonicalizer matches text against an ordered city list.
// It is immutable and safe for concurrent use.
type Canonicalizer struct {
	cities []types.City
	folded []string
}

// New builds a Canonicalizer. Order of cities is preserved and decides ties.
// Blank entries are ignored.
func New(cities []types.City) *Canonicalizer {
	c := &Canonicalizer{}
	for _, name := range cities {
		key := textnorm.Fold(string(name))
		if key == "" {
			continue
		}
		c.cities = append(c.cities, name)
		c.folded = append(c.folded, key)
	}
	return c
}

// Default returns a Canonicalizer over the fixed branch list.
func Default() *Canonicalizer {
	return New(types.KnownCities())
}

// Canonicalize returns the first known city contained in text, or "".
func (c *Canonicalizer) Canonicalize(text string) types.City {
	candidate := textnorm.Fold(text)
	if candidate == "" {
		return ""
	}

	for i, key := range c.folded {
		if strings.Contains(candidate, key) {
			return c.cities[i]
		}
	}
	return ""
}

// Cities returns a copy of the city list in match order.
func (c *Canonicalizer) Cities() []types.City {
	out := make([]types.City, len(c.cities))
	copy(out, c.cities)
	return out
}

package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// =============================================================================
// CITY COST ROLL-UP
// =============================================================================

// CostTotals holds own-fleet and third-party sums with a record count.
type CostTotals struct {
	OwnSum        decimal.Decimal `json:"ownSum"`
	ThirdPartySum decimal.Decimal `json:"thirdPartySum"`
	Count         int             `json:"count"`
}

func (t *CostTotals) add(rec types.TransportRequest) {
	t.OwnSum = t.OwnSum.Add(rec.CostOwn)
	t.ThirdPartySum = t.ThirdPartySum.Add(rec.CostThirdParty)
	t.Count++
}

// CityCost is one city's completed-request costs for a month.
//
// OwnSum, ThirdPartySum and Count cover every completed record attributed
// to the city. Operational and Demo split the same records by the demo
// marker, so Operational + Demo always equals the totals.
type CityCost struct {
	City          types.City      `json:"city"`
	OwnSum        decimal.Decimal `json:"ownSum"`
	ThirdPartySum decimal.Decimal `json:"thirdPartySum"`
	Count         int             `json:"count"`
	Operational   CostTotals      `json:"operational"`
	Demo          CostTotals      `json:"demo"`
}

// Total is own plus third-party cost.
func (c CityCost) Total() decimal.Decimal {
	return c.OwnSum.Add(c.ThirdPartySum)
}

// ChartValue is the third-party cost when there is any, else the own cost.
func (c CityCost) ChartValue() decimal.Decimal {
	if c.ThirdPartySum.IsPositive() {
		return c.ThirdPartySum
	}
	return c.OwnSum
}

// CityCostRollup sums the costs of COMPLETED records expected in monthKey
// (YYYY-MM) per cost city.
//
// The result has exactly one entry per city, in list order, including
// cities without activity. Costs are attributed by CostCity only; records
// whose cost city is unrecognized or not in the list are not counted.
// A nil city list selects the fixed branch list.
func CityCostRollup(records []types.TransportRequest, monthKey string, cities []types.City) []CityCost {
	if cities == nil {
		cities = types.KnownCities()
	}

	out := make([]CityCost, len(cities))
	index := make(map[types.City]int, len(cities))
	for i, c := range cities {
		out[i] = CityCost{City: c}
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	for _, rec := range records {
		if rec.StatusCanonical != types.StatusCompleted || !inMonth(rec, monthKey) {
			continue
		}
		i, ok := index[rec.CostCity]
		if !ok {
			continue
		}

		entry := &out[i]
		entry.OwnSum = entry.OwnSum.Add(rec.CostOwn)
		entry.ThirdPartySum = entry.ThirdPartySum.Add(rec.CostThirdParty)
		entry.Count++
		if rec.IsDemo {
			entry.Demo.add(rec)
		} else {
			entry.Operational.add(rec)
		}
	}
	return out
}

// MonthCost is one month of the cost chart.
type MonthCost struct {
	Month  string     `json:"month"`
	Cities []CityCost `json:"cities"`
}

// MonthlyCostSeries rolls up every month that has at least one completed
// record with an expected date, in ascending month order.
func MonthlyCostSeries(records []types.TransportRequest, cities []types.City) []MonthCost {
	seen := make(map[string]bool)
	var months []string
	for _, rec := range records {
		if rec.StatusCanonical != types.StatusCompleted || rec.ExpectedDate == nil {
			continue
		}
		key := MonthKey(*rec.ExpectedDate)
		if !seen[key] {
			seen[key] = true
			months = append(months, key)
		}
	}
	slices.Sort(months)

	out := make([]MonthCost, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCost{Month: m, Cities: CityCostRollup(records, m, cities)})
	}
	return out
}

// =============================================================================
// EQUIPMENT COSTS
// =============================================================================

// OtherEquipment groups records without an equipment category.
const OtherEquipment = "OUTROS"

// EquipmentCost is one machine category's completed freight.
type EquipmentCost struct {
	Equipment     string          `json:"equipment"`
	OwnSum        decimal.Decimal `json:"ownSum"`
	ThirdPartySum decimal.Decimal `json:"thirdPartySum"`
	Count         int             `json:"count"`
}

// Total is own plus third-party cost.
func (e EquipmentCost) Total() decimal.Decimal {
	return e.OwnSum.Add(e.ThirdPartySum)
}

// Average is the total cost per freight, zero without freights.
func (e EquipmentCost) Average() decimal.Decimal {
	if e.Count == 0 {
		return decimal.Zero
	}
	return e.Total().Div(decimal.NewFromInt(int64(e.Count)))
}

// EquipmentCosts sums COMPLETED records expected in monthKey per equipment
// category (blank categories fall under OtherEquipment). An empty monthKey
// covers every month. Sorted by total cost descending, then category.
func EquipmentCosts(records []types.TransportRequest, monthKey string) []EquipmentCost {
	byEquip := make(map[string]*EquipmentCost)
	for _, rec := range records {
		if rec.StatusCanonical != types.StatusCompleted {
			continue
		}
		if monthKey != "" && !inMonth(rec, monthKey) {
			continue
		}
		equip := strings.TrimSpace(rec.Equipment)
		if equip == "" {
			equip = OtherEquipment
		}

		e, ok := byEquip[equip]
		if !ok {
			e = &EquipmentCost{Equipment: equip}
			byEquip[equip] = e
		}
		e.OwnSum = e.OwnSum.Add(rec.CostOwn)
		e.ThirdPartySum = e.ThirdPartySum.Add(rec.CostThirdParty)
		e.Count++
	}

	out := make([]EquipmentCost, 0, len(byEquip))
	for _, e := range byEquip {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b EquipmentCost) int {
		if c := b.Total().Cmp(a.Total()); c != 0 {
			return c
		}
		return cmp.Compare(a.Equipment, b.Equipment)
	})
	return out
}

// =============================================================================
// CARRIER RANKING
// =============================================================================

// CarrierTotal is one third-party carrier's completed work.
type CarrierTotal struct {
	Carrier       string          `json:"carrier"`
	ThirdPartySum decimal.Decimal `json:"thirdPartySum"`
	DistanceKm    int             `json:"distanceKm"`
	Count         int             `json:"count"`
}

// CarrierRanking ranks carriers (CarrierMode text) by third-party cost over
// COMPLETED records expected in monthKey. An empty monthKey covers every
// month. Carriers with no third-party cost are dropped. Ties are broken by
// carrier name; limit <= 0 returns all.
func CarrierRanking(records []types.TransportRequest, monthKey string, limit int) []CarrierTotal {
	byCarrier := make(map[string]*CarrierTotal)
	for _, rec := range records {
		if rec.StatusCanonical != types.StatusCompleted {
			continue
		}
		if monthKey != "" && !inMonth(rec, monthKey) {
			continue
		}
		carrier := strings.TrimSpace(rec.CarrierMode)
		if carrier == "" {
			continue
		}

		t, ok := byCarrier[carrier]
		if !ok {
			t = &CarrierTotal{Carrier: carrier}
			byCarrier[carrier] = t
		}
		t.ThirdPartySum = t.ThirdPartySum.Add(rec.CostThirdParty)
		t.DistanceKm += rec.DistanceKm
		t.Count++
	}

	out := make([]CarrierTotal, 0, len(byCarrier))
	for _, t := range byCarrier {
		if t.ThirdPartySum.IsPositive() {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b CarrierTotal) int {
		if c := b.ThirdPartySum.Cmp(a.ThirdPartySum); c != 0 {
			return c
		}
		return cmp.Compare(a.Carrier, b.Carrier)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Package pricing holds the pure tariff arithmetic shared by the settlement
// aggregator and the payout report so the two paths can never disagree on a
// driver's gross revenue.
package pricing

import (
	"sort"

	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"github.com/shopspring/decimal"
)

var (
	// Flat per-order amounts applied when no plan tariff resolves for an order.
	FallbackDelivered = decimal.NewFromInt(5)
	FallbackOther     = decimal.NewFromInt(2)
)

// PackageRevenue computes the package-based gross amount for a delivered
// count under a plan. A nil plan or non-positive count yields zero. The plan
// runs in progressive mode when any of its rate rows is marked progressive,
// otherwise in simple mode.
func PackageRevenue(plan *plandomain.CompensationPlan, delivered int64) decimal.Decimal {
	if plan == nil || delivered <= 0 {
		return decimal.Zero
	}
	if plan.Progressive() {
		return progressiveRevenue(plan.Rates, delivered)
	}
	return simpleRevenue(plan.Rates, delivered)
}

// progressiveRevenue sums rate × units over every band the count reaches.
// Bands are bounded below by min_delivered itself, not min_delivered+1, so a
// band starting at 51 contributes units 52..max for counts above it; the one
// unit sitting on the boundary belongs to no band. That gap is the contracted
// tariff behavior, not an off-by-one.
func progressiveRevenue(rates []plandomain.PackageRate, delivered int64) decimal.Decimal {
	total := decimal.Zero
	for _, rate := range rates {
		lower := rate.MinDelivered
		if delivered <= lower {
			continue
		}
		upper := delivered
		if rate.MaxDelivered != nil && *rate.MaxDelivered < upper {
			upper = *rate.MaxDelivered
		}
		units := upper - lower
		if units <= 0 {
			continue
		}
		total = total.Add(rate.Rate.Mul(decimal.NewFromInt(units)))
	}
	return total
}

// simpleRevenue applies a single band's rate to the whole count. Rows are
// tried in priority order, then by ascending min_delivered; if none matches,
// the unbounded row (if any) is used as catch-all.
func simpleRevenue(rates []plandomain.PackageRate, delivered int64) decimal.Decimal {
	ordered := make([]plandomain.PackageRate, len(rates))
	copy(ordered, rates)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].MinDelivered < ordered[j].MinDelivered
	})

	var unbounded *plandomain.PackageRate
	for i := range ordered {
		rate := &ordered[i]
		if rate.MaxDelivered == nil && unbounded == nil {
			unbounded = rate
		}
		if delivered >= rate.MinDelivered && (rate.MaxDelivered == nil || delivered <= *rate.MaxDelivered) {
			return rate.Rate.Mul(decimal.NewFromInt(delivered))
		}
	}
	if unbounded != nil {
		return unbounded.Rate.Mul(decimal.NewFromInt(delivered))
	}
	return decimal.Zero
}

// VolumeBonus sums the plan's delivered-count threshold bonuses. Every
// threshold the count reaches contributes; once pays a single amount,
// each_step pays amount × (⌊(delivered−start)/step⌋ + 1) when step > 0.
func VolumeBonus(plan *plandomain.CompensationPlan, delivered int64) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, bonus := range plan.Bonuses {
		if delivered < bonus.StartAt {
			continue
		}
		switch bonus.Kind {
		case plandomain.BonusKindOnce:
			total = total.Add(bonus.Amount)
		case plandomain.BonusKindEachStep:
			if bonus.Step <= 0 {
				continue
			}
			steps := (delivered-bonus.StartAt)/bonus.Step + 1
			total = total.Add(bonus.Amount.Mul(decimal.NewFromInt(steps)))
		}
	}
	return total
}

// SuccessRateBonus is the settlement-layer bonus keyed on delivery success
// rate: ≥95% pays 10% of gross, ≥90% pays 5%, ≥85% pays 2%.
func SuccessRateBonus(gross decimal.Decimal, successRate float64) decimal.Decimal {
	var pct int64
	switch {
	case successRate >= 95:
		pct = 10
	case successRate >= 90:
		pct = 5
	case successRate >= 85:
		pct = 2
	default:
		return decimal.Zero
	}
	return gross.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)).Round(2)
}

// FlatOrderFallback is the per-order amount used when no plan tariff resolves.
func FlatOrderFallback(delivered bool) decimal.Decimal {
	if delivered {
		return FallbackDelivered
	}
	return FallbackOther
}

package pricing

import (
	"testing"

	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func bandedPlan(progressive bool) *plandomain.CompensationPlan {
	max50 := int64(50)
	max100 := int64(100)
	return &plandomain.CompensationPlan{
		Rates: []plandomain.PackageRate{
			{MinDelivered: 0, MaxDelivered: &max50, Rate: decimal.RequireFromString("0.30"), Priority: 0, Progressive: progressive},
			{MinDelivered: 51, MaxDelivered: &max100, Rate: decimal.RequireFromString("0.40"), Priority: 1, Progressive: progressive},
			{MinDelivered: 101, MaxDelivered: nil, Rate: decimal.RequireFromString("0.50"), Priority: 2, Progressive: progressive},
		},
	}
}

func TestPackageRevenue_Progressive(t *testing.T) {
	plan := bandedPlan(true)

	// 50×0.30 + 49×0.40 + 19×0.50: the single unit on the 50/51 boundary
	// falls between bands and earns nothing.
	got := PackageRevenue(plan, 120)
	assert.Equal(t, "44.1", got.String())
}

func TestPackageRevenue_ProgressivePartial(t *testing.T) {
	plan := bandedPlan(true)

	got := PackageRevenue(plan, 40)
	assert.Equal(t, "12", got.String()) // 40×0.30, higher bands untouched
}

func TestPackageRevenue_Simple(t *testing.T) {
	plan := bandedPlan(false)

	got := PackageRevenue(plan, 120)
	assert.Equal(t, "60", got.String()) // unbounded band, 120×0.50
}

func TestPackageRevenue_SimpleBoundedMatch(t *testing.T) {
	plan := bandedPlan(false)

	got := PackageRevenue(plan, 75)
	assert.Equal(t, "30", got.String()) // 75×0.40
}

func TestPackageRevenue_SimpleUnboundedCatchAll(t *testing.T) {
	max100 := int64(100)
	plan := &plandomain.CompensationPlan{
		Rates: []plandomain.PackageRate{
			{MinDelivered: 60, MaxDelivered: &max100, Rate: decimal.RequireFromString("0.40")},
			{MinDelivered: 200, MaxDelivered: nil, Rate: decimal.RequireFromString("0.50"), Priority: 1},
		},
	}

	// 30 matches no band; the unbounded row rates the whole count.
	got := PackageRevenue(plan, 30)
	assert.Equal(t, "15", got.String())
}

func TestPackageRevenue_NilPlanOrZeroCount(t *testing.T) {
	assert.True(t, PackageRevenue(nil, 120).IsZero())
	assert.True(t, PackageRevenue(bandedPlan(false), 0).IsZero())
	assert.True(t, PackageRevenue(bandedPlan(true), -5).IsZero())
}

func TestVolumeBonus_Once(t *testing.T) {
	plan := &plandomain.CompensationPlan{
		Bonuses: []plandomain.VolumeBonus{
			{Kind: plandomain.BonusKindOnce, StartAt: 80, Amount: decimal.NewFromInt(25)},
		},
	}

	assert.Equal(t, "25", VolumeBonus(plan, 120).String())
	assert.True(t, VolumeBonus(plan, 60).IsZero())
}

func TestVolumeBonus_EachStep(t *testing.T) {
	plan := &plandomain.CompensationPlan{
		Bonuses: []plandomain.VolumeBonus{
			{Kind: plandomain.BonusKindEachStep, StartAt: 80, Step: 20, Amount: decimal.NewFromInt(5)},
		},
	}

	// ⌊(120−80)/20⌋+1 = 3 steps
	assert.Equal(t, "15", VolumeBonus(plan, 120).String())
	assert.Equal(t, "5", VolumeBonus(plan, 80).String())
}

func TestVolumeBonus_StepZeroDisabled(t *testing.T) {
	plan := &plandomain.CompensationPlan{
		Bonuses: []plandomain.VolumeBonus{
			{Kind: plandomain.BonusKindEachStep, StartAt: 80, Step: 0, Amount: decimal.NewFromInt(5)},
		},
	}

	assert.True(t, VolumeBonus(plan, 120).IsZero())
}

func TestVolumeBonus_Additive(t *testing.T) {
	plan := &plandomain.CompensationPlan{
		Bonuses: []plandomain.VolumeBonus{
			{Kind: plandomain.BonusKindOnce, StartAt: 80, Amount: decimal.NewFromInt(25)},
			{Kind: plandomain.BonusKindEachStep, StartAt: 80, Step: 20, Amount: decimal.NewFromInt(5)},
		},
	}

	assert.Equal(t, "40", VolumeBonus(plan, 120).String())
	assert.True(t, VolumeBonus(nil, 120).IsZero())
}

func TestSuccessRateBonus(t *testing.T) {
	gross := decimal.NewFromInt(200)

	assert.Equal(t, "20", SuccessRateBonus(gross, 97.5).String())
	assert.Equal(t, "20", SuccessRateBonus(gross, 95).String())
	assert.Equal(t, "10", SuccessRateBonus(gross, 92).String())
	assert.Equal(t, "4", SuccessRateBonus(gross, 85).String())
	assert.True(t, SuccessRateBonus(gross, 84.9).IsZero())
}

func TestFlatOrderFallback(t *testing.T) {
	assert.Equal(t, "5", FlatOrderFallback(true).String())
	assert.Equal(t, "2", FlatOrderFallback(false).String())
}

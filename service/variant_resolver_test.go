package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shoe-card/models"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n)
}

func TestResolveVariant_salePriceWinsRegardlessOfRelease(t *testing.T) {
	t.Parallel()

	for _, price := range []float64{110, 0, -3, 0.01, 1e9} {
		for _, release := range []time.Time{daysAgo(0), daysAgo(10), daysAgo(45), daysAgo(730)} {
			got := ResolveVariant(models.Amount(price), release, fixedNow)
			assert.Equal(t, models.VariantOnSale, got, "salePrice=%v release=%v", price, release)
		}
	}
}

func TestResolveVariant_newReleaseWithoutSale(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 2, 10, 30} {
		assert.Equal(t, models.VariantNewRelease, ResolveVariant(nil, daysAgo(n), fixedNow), "days ago=%d", n)
	}
}

func TestResolveVariant_defaultWhenOldAndNotOnSale(t *testing.T) {
	t.Parallel()

	for _, n := range []int{31, 90, 730} {
		assert.Equal(t, models.VariantDefault, ResolveVariant(nil, daysAgo(n), fixedNow), "days ago=%d", n)
	}
}

func TestResolveVariant_onSaleBeatsNewRelease(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.VariantOnSale, ResolveVariant(models.Amount(110), daysAgo(2), fixedNow))
}

func TestResolveVariant_nonFiniteSalePriceIsAbsent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.VariantNewRelease, ResolveVariant(models.Amount(math.NaN()), daysAgo(2), fixedNow))
	assert.Equal(t, models.VariantDefault, ResolveVariant(models.Amount(math.Inf(1)), daysAgo(400), fixedNow))
}

func TestFlagStyleFor(t *testing.T) {
	t.Parallel()

	for _, v := range models.Variants {
		assert.True(t, v.IsValid())
	}
	assert.False(t, models.Variant("clearance").IsValid())

	assert.Equal(t, FlagStyle{Label: "Sale", Accent: models.AccentPrimary, Offset: 312}, FlagStyleFor(models.VariantOnSale))
	assert.Equal(t, FlagStyle{Label: "Just Released!", Accent: models.AccentSecondary, Offset: 245}, FlagStyleFor(models.VariantNewRelease))
	assert.Equal(t, FlagStyle{}, FlagStyleFor(models.VariantDefault))

	assert.Equal(t, DefaultPalette.Primary, DefaultPalette.Background(models.AccentPrimary))
	assert.Equal(t, DefaultPalette.Secondary, DefaultPalette.Background(models.AccentSecondary))
	assert.Equal(t, "", DefaultPalette.Background(models.AccentNone))
}

func TestResolveVariant_releaseDateIsACalendarDate(t *testing.T) {
	t.Parallel()

	release := time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, models.VariantNewRelease, ResolveVariant(nil, release, morning))
	assert.Equal(t, models.VariantDefault, ResolveVariant(nil, release, morning.AddDate(0, 0, 1)))
}

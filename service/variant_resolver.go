package service

import (
	"time"

	"shoe-card/models"
	"shoe-card/utils"
)

// Palette holds the colors used by the card
type Palette struct {
	White     string
	Primary   string
	Secondary string
	Gray700   string
	Gray900   string
}

// DefaultPalette is the storefront palette
var DefaultPalette = Palette{
	White:     "#FFFFFF",
	Primary:   "#C5295D",
	Secondary: "#6868D9",
	Gray700:   "#60666C",
	Gray900:   "#23262A",
}

// FlagStyle is the badge treatment of a variant. An empty Label means no badge.
type FlagStyle struct {
	Label  string
	Accent models.Accent
	Offset int
}

// flagStyles is the only place a variant maps to its badge
var flagStyles = map[models.Variant]FlagStyle{
	models.VariantOnSale:     {Label: "Sale", Accent: models.AccentPrimary, Offset: 312},
	models.VariantNewRelease: {Label: "Just Released!", Accent: models.AccentSecondary, Offset: 245},
	models.VariantDefault:    {},
}

// FlagStyleFor returns the badge treatment of a variant
func FlagStyleFor(v models.Variant) FlagStyle {
	return flagStyles[v]
}

// Background returns the palette color of an accent
func (p Palette) Background(a models.Accent) string {
	switch a {
	case models.AccentPrimary:
		return p.Primary
	case models.AccentSecondary:
		return p.Secondary
	default:
		return ""
	}
}

// ResolveVariant classifies a shoe. A present, finite sale price always wins,
// whatever its value; otherwise a release within the new-release window
// makes it new-release.
func ResolveVariant(salePrice *float64, releaseDate, now time.Time) models.Variant {
	if models.IsAmount(salePrice) {
		return models.VariantOnSale
	}
	if utils.IsNewShoe(releaseDate, now) {
		return models.VariantNewRelease
	}
	return models.VariantDefault
}

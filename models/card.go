package models

// Accent names the background treatment of a flag badge
type Accent string

const (
	AccentNone      Accent = ""
	AccentPrimary   Accent = "primary"
	AccentSecondary Accent = "secondary"
)

// Card is the rendered visual tree of a single shoe
type Card struct {
	Slug      string        `json:"slug"`
	Variant   Variant       `json:"variant"`
	Href      string        `json:"href"`
	Image     Image         `json:"image"`
	Title     string        `json:"title"`
	Price     PriceLine     `json:"price"`
	SalePrice SalePriceLine `json:"salePrice"`
	Colors    string        `json:"colors"`
	Flag      *Flag         `json:"flag,omitempty"` // nil for the default variant
}

// Image is the card picture. Alt is empty because the name sits next to it.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// PriceLine is the regular price
type PriceLine struct {
	Text          string `json:"text"`
	StruckThrough bool   `json:"struckThrough"`
	Color         string `json:"color"`
}

// SalePriceLine is always present in the tree; Hidden keeps it out of layout
type SalePriceLine struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
	Color  string `json:"color"`
}

// Flag is the badge drawn over the image
type Flag struct {
	Label      string `json:"label"`
	Accent     Accent `json:"accent"`
	Background string `json:"background"`
	Offset     int    `json:"offset"` // left offset in px
}

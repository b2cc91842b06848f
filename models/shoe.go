package models

import (
	"math"
	"time"
)

// Shoe represents a shoe in the catalog
type Shoe struct {
	Slug        string    `json:"slug" yaml:"slug"`
	Name        string    `json:"name" yaml:"name"`
	ImageSrc    string    `json:"imageSrc" yaml:"imageSrc"`
	Price       float64   `json:"price" yaml:"price"`
	SalePrice   *float64  `json:"salePrice" yaml:"salePrice"` // nil when not on sale
	ReleaseDate time.Time `json:"releaseDate" yaml:"releaseDate"`
	NumOfColors int       `json:"numOfColors" yaml:"numOfColors"`
}

// HasSalePrice reports whether the shoe carries a usable sale price.
// Any finite number counts, including zero and negatives.
func (s Shoe) HasSalePrice() bool {
	return IsAmount(s.SalePrice)
}

// IsAmount reports whether p points at a finite number
func IsAmount(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// Amount returns a pointer to v, for building sale prices in literals
func Amount(v float64) *float64 {
	return &v
}

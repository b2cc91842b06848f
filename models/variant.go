package models

// Variant classifies a shoe card for presentation
type Variant string

const (
	VariantOnSale     Variant = "on-sale"
	VariantNewRelease Variant = "new-release"
	VariantDefault    Variant = "default"
)

// Variants lists every variant, in precedence order
var Variants = []Variant{VariantOnSale, VariantNewRelease, VariantDefault}

// IsValid reports whether v is one of the known variants
func (v Variant) IsValid() bool {
	switch v {
	case VariantOnSale, VariantNewRelease, VariantDefault:
		return true
	}
	return false
}

func (v Variant) String() string {
	return string(v)
}

package domain

import "sort"

type PriceRange string

const (
	PriceRangeLow    PriceRange = "LOW"
	PriceRangeMedium PriceRange = "MEDIUM"
	PriceRangeHigh   PriceRange = "HIGH"
)

func (p PriceRange) IsValid() bool {
	return p == PriceRangeLow || p == PriceRangeMedium || p == PriceRangeHigh
}

// Bounds returns the numeric price interval for the range tag. The minimum
// is inclusive; HIGH has no upper bound (bounded is false).
func (p PriceRange) Bounds() (min, max int, bounded bool) {
	switch p {
	case PriceRangeLow:
		return 0, 1000, true
	case PriceRangeMedium:
		return 1001, 2000, true
	case PriceRangeHigh:
		return 2001, 0, false
	}
	return 0, 0, false
}

// FilterSet describes browse/search criteria. A zero-valued field means
// no constraint on that dimension; the zero FilterSet matches everything.
type FilterSet struct {
	Location   string     `json:"location,omitempty"`
	PriceRange PriceRange `json:"priceRange,omitempty"`
	Rooms      int        `json:"rooms,omitempty"`
	Amenities  []string   `json:"amenities,omitempty"`
	MinPrice   *int       `json:"minPrice,omitempty"`
	MaxPrice   *int       `json:"maxPrice,omitempty"`
}

func (f FilterSet) IsEmpty() bool {
	return f.Location == "" && f.PriceRange == "" && f.Rooms == 0 &&
		len(f.Amenities) == 0 && f.MinPrice == nil && f.MaxPrice == nil
}

// Normalized returns a copy with amenities sorted so that filter sets that
// are field-for-field equal serialize identically regardless of the order
// amenities were toggled in.
func (f FilterSet) Normalized() FilterSet {
	if len(f.Amenities) > 1 {
		amenities := make([]string, len(f.Amenities))
		copy(amenities, f.Amenities)
		sort.Strings(amenities)
		f.Amenities = amenities
	}
	return f
}

// PriceBounds combines the range tag with any explicit min/max price into
// a single interval. Nil means unbounded on that side.
func (f FilterSet) PriceBounds() (min, max *int) {
	if f.PriceRange.IsValid() {
		lo, hi, bounded := f.PriceRange.Bounds()
		min = &lo
		if bounded {
			max = &hi
		}
	}
	if f.MinPrice != nil && (min == nil || *f.MinPrice > *min) {
		min = f.MinPrice
	}
	if f.MaxPrice != nil && (max == nil || *f.MaxPrice < *max) {
		max = f.MaxPrice
	}
	return min, max
}

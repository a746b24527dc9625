// Package filter holds the pure search-criteria reducer: it turns user
// input (patches, query strings) into a normalized domain.FilterSet and
// provides the in-memory predicate for dimensions the database query does
// not cover.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/thando/renthub/internal/domain"
)

// Patch describes a single user interaction with the filter controls.
// Pointer fields distinguish "not touched" from "set to zero value".
type Patch struct {
	Location   *string
	PriceRange *domain.PriceRange // toggle: selecting the active tag clears it
	Rooms      *int               // 0 clears the constraint
	Amenity    *string            // toggle: present removes, absent adds
	MinPrice   *int
	MaxPrice   *int
	Reset      bool // wins over every other field
}

// Apply is a pure transition: same (current, patch) always yields the same
// result and never mutates its input.
func Apply(current domain.FilterSet, p Patch) domain.FilterSet {
	if p.Reset {
		return domain.FilterSet{}
	}

	next := current
	next.Amenities = append([]string(nil), current.Amenities...)

	if p.Location != nil {
		next.Location = *p.Location
	}
	if p.PriceRange != nil {
		if current.PriceRange == *p.PriceRange {
			next.PriceRange = ""
		} else {
			next.PriceRange = *p.PriceRange
		}
	}
	if p.Rooms != nil {
		next.Rooms = *p.Rooms
	}
	if p.Amenity != nil {
		next.Amenities = toggleAmenity(next.Amenities, *p.Amenity)
	}
	if p.MinPrice != nil {
		next.MinPrice = p.MinPrice
	}
	if p.MaxPrice != nil {
		next.MaxPrice = p.MaxPrice
	}

	return next.Normalized()
}

func toggleAmenity(amenities []string, amenity string) []string {
	for i, a := range amenities {
		if a == amenity {
			return append(amenities[:i], amenities[i+1:]...)
		}
	}
	return append(amenities, amenity)
}

// FromQuery decodes a request query string into a FilterSet. The `search`
// parameter is an alias for location so /listings?search=<text> deep links
// seed the location field; url.Values already carries the unescaped text.
func FromQuery(q url.Values) domain.FilterSet {
	var f domain.FilterSet

	f.Location = q.Get("location")
	if f.Location == "" {
		f.Location = q.Get("search")
	}

	if pr := domain.PriceRange(strings.ToUpper(q.Get("priceRange"))); pr.IsValid() {
		f.PriceRange = pr
	}
	if rooms, err := strconv.Atoi(q.Get("rooms")); err == nil && rooms > 0 {
		f.Rooms = rooms
	}
	if raw := q.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}
	if min, err := strconv.Atoi(q.Get("minPrice")); err == nil && min > 0 {
		f.MinPrice = &min
	}
	if max, err := strconv.Atoi(q.Get("maxPrice")); err == nil && max > 0 {
		f.MaxPrice = &max
	}

	return f.Normalized()
}

// Matches reports whether a listing satisfies every constrained dimension
// of the filter. The empty filter matches everything.
func Matches(l *domain.Listing, f domain.FilterSet) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Rooms > 0 && l.Rooms != f.Rooms {
		return false
	}
	if min, max := f.PriceBounds(); min != nil && l.Price < *min || max != nil && l.Price > *max {
		return false
	}
	if len(f.Amenities) > 0 {
		have := make(map[string]bool, len(l.AmenityList()))
		for _, a := range l.AmenityList() {
			have[a] = true
		}
		for _, want := range f.Amenities {
			if !have[want] {
				return false
			}
		}
	}
	return true
}

package filter_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/filter"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func rangePtr(p domain.PriceRange) *domain.PriceRange { return &p }

func TestApply_PriceRangeToggle(t *testing.T) {
	var f domain.FilterSet

	f = filter.Apply(f, filter.Patch{PriceRange: rangePtr(domain.PriceRangeLow)})
	assert.Equal(t, domain.PriceRangeLow, f.PriceRange)

	// selecting a different tag replaces the current one
	f = filter.Apply(f, filter.Patch{PriceRange: rangePtr(domain.PriceRangeHigh)})
	assert.Equal(t, domain.PriceRangeHigh, f.PriceRange)

	// re-selecting the active tag clears it
	f = filter.Apply(f, filter.Patch{PriceRange: rangePtr(domain.PriceRangeHigh)})
	assert.Empty(t, f.PriceRange)
}

func TestApply_AmenityToggleRoundTrip(t *testing.T) {
	f := domain.FilterSet{Amenities: []string{"Parking"}}

	toggled := filter.Apply(f, filter.Patch{Amenity: strPtr("Wi-Fi")})
	assert.ElementsMatch(t, []string{"Parking", "Wi-Fi"}, toggled.Amenities)

	back := filter.Apply(toggled, filter.Patch{Amenity: strPtr("Wi-Fi")})
	assert.Equal(t, []string{"Parking"}, back.Amenities)

	// the input was never mutated
	assert.Equal(t, []string{"Parking"}, f.Amenities)
}

func TestApply_Deterministic(t *testing.T) {
	current := domain.FilterSet{Location: "Soweto", Rooms: 2, Amenities: []string{"Laundry", "Wi-Fi"}}
	patch := filter.Patch{Amenity: strPtr("Security"), Rooms: intPtr(3)}

	first := filter.Apply(current, patch)
	second := filter.Apply(current, patch)
	assert.Equal(t, first, second)
}

func TestApply_Reset(t *testing.T) {
	f := domain.FilterSet{
		Location:   "Cape Town",
		PriceRange: domain.PriceRangeMedium,
		Rooms:      3,
		Amenities:  []string{"Parking"},
		MinPrice:   intPtr(500),
	}

	cleared := filter.Apply(f, filter.Patch{Reset: true, Amenity: strPtr("Wi-Fi")})
	assert.True(t, cleared.IsEmpty())
}

func TestApply_NormalizesAmenityOrder(t *testing.T) {
	a := filter.Apply(domain.FilterSet{}, filter.Patch{Amenity: strPtr("Wi-Fi")})
	a = filter.Apply(a, filter.Patch{Amenity: strPtr("Parking")})

	b := filter.Apply(domain.FilterSet{}, filter.Patch{Amenity: strPtr("Parking")})
	b = filter.Apply(b, filter.Patch{Amenity: strPtr("Wi-Fi")})

	// toggle order must not matter for structural equality
	assert.Equal(t, a, b)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.FilterSet
	}{
		{
			name:  "empty query",
			query: "",
			want:  domain.FilterSet{},
		},
		{
			name:  "search seeds location",
			query: "search=Cape+Town",
			want:  domain.FilterSet{Location: "Cape Town"},
		},
		{
			name:  "explicit location wins over search",
			query: "location=Durban&search=Joburg",
			want:  domain.FilterSet{Location: "Durban"},
		},
		{
			name:  "full filter",
			query: "location=Soweto&priceRange=medium&rooms=2&amenities=Wi-Fi,Parking&minPrice=100&maxPrice=1800",
			want: domain.FilterSet{
				Location:   "Soweto",
				PriceRange: domain.PriceRangeMedium,
				Rooms:      2,
				Amenities:  []string{"Parking", "Wi-Fi"},
				MinPrice:   intPtr(100),
				MaxPrice:   intPtr(1800),
			},
		},
		{
			name:  "invalid values ignored",
			query: "priceRange=CHEAP&rooms=abc&rooms=-1&minPrice=notanumber",
			want:  domain.FilterSet{},
		},
		{
			name:  "non-positive price bounds ignored",
			query: "minPrice=0&maxPrice=-1",
			want:  domain.FilterSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.FromQuery(q))
		})
	}
}

func TestMatches(t *testing.T) {
	listing := &domain.Listing{
		Price:     1500,
		Location:  "Braamfontein, Johannesburg",
		Rooms:     2,
		Amenities: domain.EncodeStringList([]string{"Wi-Fi", "Parking", "Security"}),
	}

	tests := []struct {
		name string
		f    domain.FilterSet
		want bool
	}{
		{"empty filter matches", domain.FilterSet{}, true},
		{"location substring case-insensitive", domain.FilterSet{Location: "johannesburg"}, true},
		{"location mismatch", domain.FilterSet{Location: "Durban"}, false},
		{"exact rooms", domain.FilterSet{Rooms: 2}, true},
		{"wrong rooms", domain.FilterSet{Rooms: 3}, false},
		{"medium range contains 1500", domain.FilterSet{PriceRange: domain.PriceRangeMedium}, true},
		{"low range excludes 1500", domain.FilterSet{PriceRange: domain.PriceRangeLow}, false},
		{"high range excludes 1500", domain.FilterSet{PriceRange: domain.PriceRangeHigh}, false},
		{"amenity subset matches", domain.FilterSet{Amenities: []string{"Wi-Fi", "Security"}}, true},
		{"missing amenity fails", domain.FilterSet{Amenities: []string{"Wi-Fi", "Laundry"}}, false},
		{"explicit bounds", domain.FilterSet{MinPrice: intPtr(1000), MaxPrice: intPtr(1500)}, true},
		{"max below price", domain.FilterSet{MaxPrice: intPtr(1499)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Matches(listing, tt.f))
		})
	}
}

func TestPriceRangeBounds(t *testing.T) {
	min, max, bounded := domain.PriceRangeLow.Bounds()
	assert.Equal(t, 0, min)
	assert.Equal(t, 1000, max)
	assert.True(t, bounded)

	min, _, bounded = domain.PriceRangeHigh.Bounds()
	assert.Equal(t, 2001, min)
	assert.False(t, bounded)
}

func TestPriceBounds_CombinesRangeAndExplicit(t *testing.T) {
	f := domain.FilterSet{
		PriceRange: domain.PriceRangeMedium,
		MinPrice:   intPtr(1200),
		MaxPrice:   intPtr(2500),
	}

	min, max := f.PriceBounds()
	require.NotNil(t, min)
	require.NotNil(t, max)
	assert.Equal(t, 1200, *min) // explicit min is tighter
	assert.Equal(t, 2000, *max) // range max is tighter
}

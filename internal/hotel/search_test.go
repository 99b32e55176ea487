package hotel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHotelsNoLocationReturnsAll(t *testing.T) {
	srv := NewSearchServer()
	res := srv.SearchHotels("", "", "", 1)

	assert.True(t, res.Success)
	assert.Equal(t, 50, res.TotalCount)
	assert.Len(t, res.Results, 10)
}

func TestSearchHotelsLocationSubstring(t *testing.T) {
	srv := NewSearchServer()
	res := srv.SearchHotels("paris", "2025-01-15", "2025-01-20", 2)

	assert.True(t, res.Success)
	require.NotEmpty(t, res.Results)
	for _, h := range res.Results {
		assert.Equal(t, "Paris", h.Location)
	}
	assert.Equal(t, "paris", res.SearchParams["location"])
	assert.Equal(t, 2, res.SearchParams["guests"])
}

func TestSearchHotelsNoMatch(t *testing.T) {
	srv := NewSearchServer()
	res := srv.SearchHotels("Atlantis", "", "", 1)

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.TotalCount)
	assert.Empty(t, res.Results)
}

func TestSearchHotelsTotalCountExceedsPage(t *testing.T) {
	srv := NewSearchServer()
	res := srv.SearchHotels("", "", "", 1)
	assert.Greater(t, res.TotalCount, len(res.Results))
}

func TestGetHotelDetails(t *testing.T) {
	srv := NewSearchServer()

	h, err := srv.GetHotelDetails("hotel_1")
	require.NoError(t, err)
	assert.Equal(t, "hotel_1", h.ID)
	assert.NotEmpty(t, h.Name)
	assert.NotEmpty(t, h.Amenities)

	_, err = srv.GetHotelDetails("hotel_999")
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestFilterHotelsPredicates(t *testing.T) {
	srv := NewSearchServer()
	res := srv.FilterHotels(4.0, 400, []string{"Pool"}, "Luxury")

	assert.True(t, res.Success)
	for _, h := range res.Results {
		assert.GreaterOrEqual(t, h.Rating, 4.0)
		assert.LessOrEqual(t, h.PricePerNight, 400)
		assert.True(t, strings.Contains(strings.ToLower(h.Category), "luxury"))
		assert.True(t, hasAnyAmenity(h.Amenities, []string{"Pool"}))
	}
}

func TestFilterHotelsZeroValuesMeanAbsent(t *testing.T) {
	srv := NewSearchServer()
	res := srv.FilterHotels(0, 0, nil, "")
	assert.Equal(t, 50, res.TotalCount)
	assert.Len(t, res.Results, 15)
}

func TestFilterHotelsAmenityCaseInsensitive(t *testing.T) {
	srv := NewSearchServer()
	upper := srv.FilterHotels(0, 0, []string{"POOL"}, "")
	lower := srv.FilterHotels(0, 0, []string{"pool"}, "")
	assert.Equal(t, upper.TotalCount, lower.TotalCount)
	assert.NotZero(t, upper.TotalCount)
}

func TestSearchResultsAreCopies(t *testing.T) {
	srv := NewSearchServer()
	res := srv.SearchHotels("", "", "", 1)
	require.NotEmpty(t, res.Results)
	original := res.Results[0].Name

	res.Results[0].Name = "Mutated"

	again := srv.SearchHotels("", "", "", 1)
	assert.Equal(t, original, again.Results[0].Name)
}

func TestRegistryIsStableAcrossServers(t *testing.T) {
	a := NewSearchServer().SearchHotels("", "", "", 1)
	b := NewSearchServer().SearchHotels("", "", "", 1)
	assert.Equal(t, a.Results, b.Results)
}

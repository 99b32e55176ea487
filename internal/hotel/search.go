package hotel

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	searchPageSize = 10
	filterPageSize = 15
)

// SearchServer serves a static hotel registry generated once at construction.
// The registry is read-only afterwards, so lookups need no locking.
type SearchServer struct {
	hotels []Hotel
}

var (
	hotelLocations  = []string{"New York", "Paris", "Tokyo", "London", "Dubai", "Singapore", "Barcelona", "Rome"}
	hotelCategories = []string{"Luxury", "Business", "Boutique", "Resort", "Budget"}
	hotelAmenities  = []string{"WiFi", "Pool", "Gym", "Restaurant", "Spa", "Bar", "Parking", "Room Service"}
)

func NewSearchServer() *SearchServer {
	return &SearchServer{hotels: generateHotels(50)}
}

// generateHotels cycles through the location and category lists so every
// location is represented, and draws the rest from a fixed-seed RNG so the
// fixture is stable across runs.
func generateHotels(n int) []Hotel {
	rng := rand.New(rand.NewSource(42))
	hotels := make([]Hotel, 0, n)
	for i := 0; i < n; i++ {
		location := hotelLocations[i%len(hotelLocations)]
		category := hotelCategories[i%len(hotelCategories)]
		hotels = append(hotels, Hotel{
			ID:             fmt.Sprintf("hotel_%d", i+1),
			Name:           fmt.Sprintf("%s %s Hotel %d", category, location, i+1),
			Location:       location,
			Category:       category,
			Rating:         float64(35+rng.Intn(16)) / 10,
			PricePerNight:  80 + rng.Intn(721),
			Amenities:      sampleAmenities(rng),
			AvailableRooms: 5 + rng.Intn(46),
			Description:    fmt.Sprintf("A wonderful %s hotel in %s", strings.ToLower(category), location),
		})
	}
	return hotels
}

func sampleAmenities(rng *rand.Rand) []string {
	k := 3 + rng.Intn(4)
	perm := rng.Perm(len(hotelAmenities))
	out := make([]string, 0, k)
	for _, idx := range perm[:k] {
		out = append(out, hotelAmenities[idx])
	}
	return out
}

// SearchHotels filters by location substring. The returned page is capped,
// but TotalCount always reflects the full match count.
func (s *SearchServer) SearchHotels(location, checkIn, checkOut string, guests int) SearchResult {
	if guests < 1 {
		guests = 1
	}

	matched := s.hotels
	if location != "" {
		matched = nil
		needle := strings.ToLower(location)
		for _, h := range s.hotels {
			if strings.Contains(strings.ToLower(h.Location), needle) {
				matched = append(matched, h)
			}
		}
	}

	return SearchResult{
		Success:    true,
		Results:    page(matched, searchPageSize),
		TotalCount: len(matched),
		SearchParams: map[string]any{
			"location":  location,
			"check_in":  checkIn,
			"check_out": checkOut,
			"guests":    guests,
		},
	}
}

func (s *SearchServer) GetHotelDetails(hotelID string) (Hotel, error) {
	for _, h := range s.hotels {
		if h.ID == hotelID {
			return h, nil
		}
	}
	return Hotel{}, ErrHotelNotFound
}

// FilterHotels applies the given criteria conjunctively over the full
// registry. Zero values mean "criterion absent".
func (s *SearchServer) FilterHotels(minRating float64, maxPrice int, amenities []string, category string) SearchResult {
	matched := make([]Hotel, 0, len(s.hotels))
	for _, h := range s.hotels {
		if minRating > 0 && h.Rating < minRating {
			continue
		}
		if maxPrice > 0 && h.PricePerNight > maxPrice {
			continue
		}
		if len(amenities) > 0 && !hasAnyAmenity(h.Amenities, amenities) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(h.Category), strings.ToLower(category)) {
			continue
		}
		matched = append(matched, h)
	}

	return SearchResult{
		Success:    true,
		Results:    page(matched, filterPageSize),
		TotalCount: len(matched),
		FiltersApplied: map[string]any{
			"min_rating": minRating,
			"max_price":  maxPrice,
			"amenities":  amenities,
			"hotel_type": category,
		},
	}
}

func hasAnyAmenity(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func page(hotels []Hotel, size int) []Hotel {
	if len(hotels) > size {
		hotels = hotels[:size]
	}
	out := make([]Hotel, len(hotels))
	copy(out, hotels)
	return out
}

func (s *SearchServer) AvailableTools() []Tool {
	return []Tool{
		{
			Name:        "search_hotels",
			Description: "Search for hotels by location, dates, and guest count",
			Parameters: map[string]string{
				"location":  "string (optional)",
				"check_in":  "string YYYY-MM-DD (optional)",
				"check_out": "string YYYY-MM-DD (optional)",
				"guests":    "integer (optional, default: 1)",
			},
		},
		{
			Name:        "get_hotel_details",
			Description: "Get detailed information about a specific hotel",
			Parameters: map[string]string{
				"hotel_id": "string (required)",
			},
		},
		{
			Name:        "filter_hotels",
			Description: "Filter hotels by rating, price, amenities, and type",
			Parameters: map[string]string{
				"min_rating": "float (optional)",
				"max_price":  "integer (optional)",
				"amenities":  "list of strings (optional)",
				"hotel_type": "string (optional)",
			},
		},
	}
}

package agent

import (
	"context"

	"hotel-assistant-backend/internal/hotel"
)

// Result is the outcome of one pipeline run: which agent handled the
// request, the final conversational reply, the parameters extracted from the
// user's text, and task-specific extras.
type Result struct {
	Agent         string         `json:"agent"`
	Response      string         `json:"response"`
	Intent        string         `json:"intent,omitempty"`
	Params        map[string]any `json:"params,omitempty"`
	ResultsCount  int            `json:"results_count,omitempty"`
	BookingStatus string         `json:"booking_status,omitempty"`
	DataRetrieved []string       `json:"data_retrieved,omitempty"`
	WorkflowSteps []string       `json:"workflow_steps,omitempty"`
	// Hotels surfaced by a search run, for session-level hotel resolution.
	Hotels []HotelMention `json:"-"`
}

type HotelMention struct {
	ID   string
	Name string
}

// Pipeline is the single entry operation each task handler exposes. A
// pipeline never returns an error: failures inside a run become explanatory
// reply text.
type Pipeline interface {
	Handle(ctx context.Context, query string) *Result
}

// SearchBackend is the slice of the hotel facade the search pipeline uses.
type SearchBackend interface {
	SearchHotels(location, checkIn, checkOut string, guests int) hotel.SearchResult
	FilterHotels(minRating float64, maxPrice int, amenities []string, category string) hotel.SearchResult
}

// BookingBackend is the slice of the hotel facade the booking pipeline uses.
type BookingBackend interface {
	CheckAvailability(hotelID, checkIn, checkOut string, rooms int, roomType string) hotel.AvailabilityResult
	CreateBooking(hotelID, checkIn, checkOut, guestName, guestEmail string, rooms int, roomType string) hotel.Booking
	ConfirmBooking(bookingID, paymentMethod string) (hotel.Booking, error)
}

// CustomerBackend is the slice of the hotel facade the customer pipeline uses.
type CustomerBackend interface {
	GetCustomerProfile(customerID, email string) (hotel.CustomerProfile, error)
	GetCustomerTrips(customerID, status string) ([]hotel.Trip, error)
	GetCustomerRewards(customerID string) (hotel.Rewards, error)
}

// PropertyBackend is the remote MCP contract the Apollo search pipeline uses.
type PropertyBackend interface {
	SearchProperties(ctx context.Context, city, checkIn, checkOut string, guests int, brands []string) map[string]any
	GetPropertyDetails(ctx context.Context, propertyID string) map[string]any
	GetPropertyOffers(ctx context.Context, propertyID string) map[string]any
	AvailableTools(ctx context.Context) []hotel.Tool
}

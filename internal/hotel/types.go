package hotel

import "time"

// Booking lifecycle statuses. A booking only ever moves pending -> confirmed
// or pending -> cancelled.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Hotel struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Category       string   `json:"type"`
	Rating         float64  `json:"rating"`
	PricePerNight  int      `json:"price_per_night"`
	Amenities      []string `json:"amenities"`
	AvailableRooms int      `json:"available_rooms"`
	Description    string   `json:"description"`
}

type Booking struct {
	BookingID          string     `json:"booking_id"`
	HotelID            string     `json:"hotel_id"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	CheckIn            string     `json:"check_in"`
	CheckOut           string     `json:"check_out"`
	Rooms              int        `json:"rooms"`
	RoomType           string     `json:"room_type"`
	PricePerNight      int        `json:"price_per_night"`
	TotalNights        int        `json:"total_nights"`
	TotalPrice         int        `json:"total_price"`
	Status             string     `json:"status"`
	PaymentMethod      string     `json:"payment_method,omitempty"`
	ConfirmationNumber string     `json:"confirmation_number,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

// AvailabilityResult reports a room availability check. Note the mock
// randomizes availability and price per read; two consecutive checks for the
// same hotel may disagree. A real backend would have to keep these consistent
// within one transaction.
type AvailabilityResult struct {
	Success        bool   `json:"success"`
	Available      bool   `json:"available"`
	HotelID        string `json:"hotel_id"`
	RoomType       string `json:"room_type,omitempty"`
	AvailableRooms int    `json:"available_rooms,omitempty"`
	PricePerNight  int    `json:"price_per_night,omitempty"`
	TotalNights    int    `json:"total_nights,omitempty"`
	TotalPrice     int    `json:"total_price,omitempty"`
	CheckIn        string `json:"check_in,omitempty"`
	CheckOut       string `json:"check_out,omitempty"`
	Message        string `json:"message,omitempty"`
}

type SearchResult struct {
	Success        bool           `json:"success"`
	Results        []Hotel        `json:"results"`
	TotalCount     int            `json:"total_count"`
	SearchParams   map[string]any `json:"search_params,omitempty"`
	FiltersApplied map[string]any `json:"filters_applied,omitempty"`
}

type CustomerProfile struct {
	CustomerID    string         `json:"customer_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	LoyaltyTier   string         `json:"loyalty_tier"`
	MemberSince   string         `json:"member_since"`
	Preferences   map[string]any `json:"preferences"`
	TotalBookings int            `json:"total_bookings"`
	TotalSpent    float64        `json:"total_spent"`
}

type Trip struct {
	TripID      string  `json:"trip_id"`
	HotelName   string  `json:"hotel_name"`
	Location    string  `json:"location"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Status      string  `json:"status"`
	TotalCost   float64 `json:"total_cost"`
	RatingGiven *int    `json:"rating_given"`
}

type Voucher struct {
	VoucherID string `json:"voucher_id"`
	Type      string `json:"type"`
	Value     any    `json:"value"`
	Expires   string `json:"expires"`
}

type Rewards struct {
	CustomerID        string    `json:"customer_id"`
	PointsBalance     int       `json:"points_balance"`
	PointsEarnedYTD   int       `json:"points_earned_ytd"`
	PointsRedeemedYTD int       `json:"points_redeemed_ytd"`
	Tier              string    `json:"tier"`
	TierBenefits      []string  `json:"tier_benefits"`
	Vouchers          []Voucher `json:"vouchers"`
	NextTier          string    `json:"next_tier"`
	PointsToNextTier  int       `json:"points_to_next_tier"`
}

// Tool describes a backend operation with its parameter schema, as surfaced
// by the /api/mcp-servers endpoint and the schema-aware agent prompts.
type Tool struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}

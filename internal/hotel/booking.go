package hotel

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BookingServer is the mock booking backend. The registry is the system of
// record, so all mutations happen under the lock; two concurrent confirms of
// the same booking id cannot both succeed.
type BookingServer struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	rng      *rand.Rand
}

func NewBookingServer() *BookingServer {
	return &BookingServer{
		bookings: make(map[string]*Booking),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Nights computes the stay length between two dates, accepting YYYY-MM-DD or
// RFC3339. Missing or unparsable dates count as a single night; same-day
// check-in/check-out also counts as one. Lenient by policy: a malformed date
// must never fail an availability check.
func Nights(checkIn, checkOut string) int {
	start, ok1 := parseDate(checkIn)
	end, ok2 := parseDate(checkOut)
	if !ok1 || !ok2 {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func clampRooms(rooms int) int {
	if rooms < 1 {
		return 1
	}
	return rooms
}

// CheckAvailability simulates an availability lookup: roughly three out of
// four checks report rooms free, with a randomized nightly price.
func (b *BookingServer) CheckAvailability(hotelID, checkIn, checkOut string, rooms int, roomType string) AvailabilityResult {
	rooms = clampRooms(rooms)
	if roomType == "" {
		roomType = "standard"
	}

	b.mu.Lock()
	available := b.rng.Intn(4) != 0
	availableRooms := 1 + b.rng.Intn(10)
	pricePerNight := 100 + b.rng.Intn(401)
	b.mu.Unlock()

	if !available {
		return AvailabilityResult{
			Success:   true,
			Available: false,
			HotelID:   hotelID,
			Message:   "No rooms available for selected dates",
		}
	}

	nights := Nights(checkIn, checkOut)
	return AvailabilityResult{
		Success:        true,
		Available:      true,
		HotelID:        hotelID,
		RoomType:       roomType,
		AvailableRooms: availableRooms,
		PricePerNight:  pricePerNight,
		TotalNights:    nights,
		TotalPrice:     pricePerNight * nights * rooms,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
	}
}

// CreateBooking registers a new pending booking. No inventory is decremented;
// creation always succeeds structurally.
func (b *BookingServer) CreateBooking(hotelID, checkIn, checkOut, guestName, guestEmail string, rooms int, roomType string) Booking {
	rooms = clampRooms(rooms)
	if roomType == "" {
		roomType = "standard"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pricePerNight := 100 + b.rng.Intn(401)
	nights := Nights(checkIn, checkOut)
	booking := &Booking{
		BookingID:     "booking_" + uuid.NewString()[:8],
		HotelID:       hotelID,
		GuestName:     guestName,
		GuestEmail:    guestEmail,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Rooms:         rooms,
		RoomType:      roomType,
		PricePerNight: pricePerNight,
		TotalNights:   nights,
		TotalPrice:    pricePerNight * nights * rooms,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	b.bookings[booking.BookingID] = booking
	return *booking
}

// ConfirmBooking finalizes a pending booking. Confirming twice is rejected;
// the first confirmation stands.
func (b *BookingServer) ConfirmBooking(bookingID, paymentMethod string) (Booking, error) {
	if paymentMethod == "" {
		paymentMethod = "credit_card"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	if booking.Status == StatusConfirmed {
		return Booking{}, ErrAlreadyConfirmed
	}
	now := time.Now().UTC()
	booking.Status = StatusConfirmed
	booking.PaymentMethod = paymentMethod
	booking.ConfirmationNumber = "CONF" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	booking.ConfirmedAt = &now
	return *booking, nil
}

// CancelBooking marks a booking cancelled. Unlike ConfirmBooking there is no
// terminal-state guard: cancelling a confirmed or already-cancelled booking
// overwrites the status again. That asymmetry matches the upstream behavior
// and is kept as-is.
func (b *BookingServer) CancelBooking(bookingID string) (Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	now := time.Now().UTC()
	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	return *booking, nil
}

func (b *BookingServer) GetBookingDetails(bookingID string) (Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return *booking, nil
}

func (b *BookingServer) AvailableTools() []Tool {
	return []Tool{
		{
			Name:        "check_availability",
			Description: "Check room availability for specific dates",
			Parameters: map[string]string{
				"hotel_id":  "string (required)",
				"check_in":  "string YYYY-MM-DD (required)",
				"check_out": "string YYYY-MM-DD (required)",
				"rooms":     "integer (optional, default: 1)",
				"room_type": "string (optional, default: 'standard')",
			},
		},
		{
			Name:        "create_booking",
			Description: "Create a new hotel booking",
			Parameters: map[string]string{
				"hotel_id":    "string (required)",
				"check_in":    "string YYYY-MM-DD (required)",
				"check_out":   "string YYYY-MM-DD (required)",
				"guest_name":  "string (required)",
				"guest_email": "string (required)",
				"rooms":       "integer (optional, default: 1)",
				"room_type":   "string (optional, default: 'standard')",
			},
		},
		{
			Name:        "confirm_booking",
			Description: "Confirm and finalize a booking",
			Parameters: map[string]string{
				"booking_id":     "string (required)",
				"payment_method": "string (optional, default: 'credit_card')",
			},
		},
		{
			Name:        "cancel_booking",
			Description: "Cancel an existing booking",
			Parameters: map[string]string{
				"booking_id": "string (required)",
			},
		},
		{
			Name:        "get_booking_details",
			Description: "Get details of a specific booking",
			Parameters: map[string]string{
				"booking_id": "string (required)",
			},
		},
	}
}

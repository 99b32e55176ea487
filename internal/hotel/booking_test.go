package hotel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{"five nights", "2025-01-15", "2025-01-20", 5},
		{"one night", "2025-01-15", "2025-01-16", 1},
		{"same day", "2025-01-15", "2025-01-15", 1},
		{"checkout before checkin", "2025-01-20", "2025-01-15", 1},
		{"rfc3339", "2025-01-15T14:00:00Z", "2025-01-18T10:00:00Z", 2},
		{"missing checkin", "", "2025-01-20", 1},
		{"missing checkout", "2025-01-15", "", 1},
		{"garbage", "next tuesday", "2025-01-20", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Nights(tc.checkIn, tc.checkOut))
		})
	}
}

func TestCheckAvailabilityInvariants(t *testing.T) {
	srv := NewBookingServer()
	for i := 0; i < 50; i++ {
		res := srv.CheckAvailability("hotel_1", "2025-03-01", "2025-03-04", 2, "")
		assert.True(t, res.Success)
		assert.Equal(t, "hotel_1", res.HotelID)
		if !res.Available {
			assert.NotEmpty(t, res.Message)
			continue
		}
		assert.Equal(t, "standard", res.RoomType)
		assert.Equal(t, 3, res.TotalNights)
		assert.GreaterOrEqual(t, res.PricePerNight, 100)
		assert.LessOrEqual(t, res.PricePerNight, 500)
		assert.Equal(t, res.PricePerNight*res.TotalNights*2, res.TotalPrice)
	}
}

func TestCheckAvailabilityClampsRooms(t *testing.T) {
	srv := NewBookingServer()
	for i := 0; i < 50; i++ {
		res := srv.CheckAvailability("hotel_1", "2025-03-01", "2025-03-02", 0, "suite")
		if res.Available {
			// rooms clamped to 1, so total equals a single night's price
			assert.Equal(t, res.PricePerNight, res.TotalPrice)
			assert.Equal(t, "suite", res.RoomType)
			return
		}
	}
	t.Fatal("no available result in 50 attempts")
}

func TestCreateBooking(t *testing.T) {
	srv := NewBookingServer()
	b := srv.CreateBooking("hotel_3", "2025-04-10", "2025-04-12", "John Doe", "john@example.com", 2, "")

	assert.True(t, strings.HasPrefix(b.BookingID, "booking_"))
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "standard", b.RoomType)
	assert.Equal(t, 2, b.TotalNights)
	assert.Equal(t, b.PricePerNight*2*2, b.TotalPrice)
	assert.Empty(t, b.ConfirmationNumber)
	assert.Nil(t, b.ConfirmedAt)

	got, err := srv.GetBookingDetails(b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingID, got.BookingID)
}

func TestConfirmBooking(t *testing.T) {
	srv := NewBookingServer()
	b := srv.CreateBooking("hotel_3", "2025-04-10", "2025-04-12", "John Doe", "john@example.com", 1, "")

	confirmed, err := srv.ConfirmBooking(b.BookingID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, "credit_card", confirmed.PaymentMethod)
	assert.True(t, strings.HasPrefix(confirmed.ConfirmationNumber, "CONF"))
	assert.Len(t, confirmed.ConfirmationNumber, 10)
	require.NotNil(t, confirmed.ConfirmedAt)

	// second confirm is rejected and the first one stands
	_, err = srv.ConfirmBooking(b.BookingID, "paypal")
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	got, err := srv.GetBookingDetails(b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, "credit_card", got.PaymentMethod)
	assert.Equal(t, confirmed.ConfirmationNumber, got.ConfirmationNumber)
}

func TestConfirmBookingUnknown(t *testing.T) {
	srv := NewBookingServer()
	_, err := srv.ConfirmBooking("booking_nope", "credit_card")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBooking(t *testing.T) {
	srv := NewBookingServer()
	b := srv.CreateBooking("hotel_3", "2025-04-10", "2025-04-12", "John Doe", "john@example.com", 1, "")

	cancelled, err := srv.CancelBooking(b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = srv.CancelBooking("booking_nope")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelAfterConfirmOverwrites(t *testing.T) {
	srv := NewBookingServer()
	b := srv.CreateBooking("hotel_3", "2025-04-10", "2025-04-12", "John Doe", "john@example.com", 1, "")
	_, err := srv.ConfirmBooking(b.BookingID, "")
	require.NoError(t, err)

	cancelled, err := srv.CancelBooking(b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestGetBookingDetailsUnknown(t *testing.T) {
	srv := NewBookingServer()
	_, err := srv.GetBookingDetails("booking_nope")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

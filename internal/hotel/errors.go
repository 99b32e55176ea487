package hotel

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyConfirmed = errors.New("booking already confirmed")
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

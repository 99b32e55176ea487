package agent

import (
	"context"
	"log"

	"hotel-assistant-backend/internal/hotel"
	"hotel-assistant-backend/internal/llm"
)

const bookingParsePrompt = `You are a hotel booking parameter extractor.
Extract hotel_id, check_in date, check_out date, guest_name, guest_email, number of rooms from the user query.
Return ONLY a JSON object with these fields. Use null for missing values.
Example: {"hotel_id": "hotel_1", "check_in": "2025-01-15", "check_out": "2025-01-20", "guest_name": "John Doe", "guest_email": "john@example.com", "rooms": 1}`

const bookingFormatPrompt = `You are a helpful hotel booking assistant.
Format the booking information into a natural, conversational response.
If booking was successful, include confirmation details.
If not available or failed, explain why and offer alternatives.`

// BookingAgent runs the only pipeline with a real branch:
// parse -> check_availability -> {available: create -> confirm ; unavailable: skip} -> format.
type BookingAgent struct {
	llm     llm.Client
	backend BookingBackend
}

func NewBookingAgent(client llm.Client, backend BookingBackend) *BookingAgent {
	return &BookingAgent{llm: client, backend: backend}
}

func (a *BookingAgent) Handle(ctx context.Context, query string) *Result {
	params := a.parseRequest(ctx, query)

	availability := a.checkAvailability(params)

	bookingCtx := map[string]any{}
	status := "unknown"
	if availability.Success && availability.Available {
		booking := a.backend.CreateBooking(
			strArg(params, "hotel_id"),
			strArg(params, "check_in"),
			strArg(params, "check_out"),
			defaultStr(strArg(params, "guest_name"), "Guest"),
			defaultStr(strArg(params, "guest_email"), "guest@example.com"),
			intArg(params, "rooms", 1, 1),
			strArg(params, "room_type"),
		)
		confirmed, err := a.backend.ConfirmBooking(booking.BookingID, strArg(params, "payment_method"))
		if err != nil {
			bookingCtx["success"] = false
			bookingCtx["error"] = err.Error()
			bookingCtx["booking"] = booking
			status = booking.Status
		} else {
			bookingCtx["success"] = true
			bookingCtx["booking"] = confirmed
			bookingCtx["message"] = "Booking confirmed! Confirmation number: " + confirmed.ConfirmationNumber
			status = confirmed.Status
		}
	}

	reply := a.formatResponse(ctx, availability, bookingCtx)

	return &Result{
		Agent:         "booking_agent",
		Response:      reply,
		Params:        params,
		BookingStatus: status,
		WorkflowSteps: []string{"parse_booking_request", "check_availability", "create_booking", "confirm_booking", "format_response"},
	}
}

func (a *BookingAgent) parseRequest(ctx context.Context, query string) map[string]any {
	raw, err := a.llm.Generate(ctx, bookingParsePrompt, query)
	if err != nil {
		log.Printf("booking agent: parse call failed: %v", err)
		return map[string]any{}
	}
	params, err := parseParams(raw)
	if err != nil {
		log.Printf("booking agent: could not decode parameters: %v", err)
		return map[string]any{}
	}
	return params
}

func (a *BookingAgent) checkAvailability(params map[string]any) hotel.AvailabilityResult {
	hotelID := strArg(params, "hotel_id")
	if hotelID == "" {
		return hotel.AvailabilityResult{Success: false, Message: "Missing hotel_id"}
	}
	return a.backend.CheckAvailability(
		hotelID,
		strArg(params, "check_in"),
		strArg(params, "check_out"),
		intArg(params, "rooms", 1, 1),
		strArg(params, "room_type"),
	)
}

func (a *BookingAgent) formatResponse(ctx context.Context, availability hotel.AvailabilityResult, bookingCtx map[string]any) string {
	context := map[string]any{
		"availability": availability,
		"booking":      bookingCtx,
	}
	reply, err := a.llm.Generate(ctx, bookingFormatPrompt, "Booking context: "+toJSON(context))
	if err != nil {
		log.Printf("booking agent: format call failed: %v", err)
		if availability.Success && availability.Available {
			return "Your booking request was processed. Please check your booking details."
		}
		return "I'm sorry, those dates don't appear to be available. Would you like to try different dates?"
	}
	return reply
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

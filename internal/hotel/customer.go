package hotel

import (
	"strings"
	"sync"
)

// CustomerServer holds reference customer data. Profiles are the only
// mutable records (via UpdateCustomerProfile); trips and rewards are
// read-only fixtures.
type CustomerServer struct {
	mu       sync.RWMutex
	profiles map[string]*CustomerProfile
	trips    map[string][]Trip
	rewards  map[string]*Rewards
}

func NewCustomerServer() *CustomerServer {
	return &CustomerServer{
		profiles: seedProfiles(),
		trips:    seedTrips(),
		rewards:  seedRewards(),
	}
}

// GetCustomerProfile looks up by id first, then by case-insensitive email.
func (c *CustomerServer) GetCustomerProfile(customerID, email string) (CustomerProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if customerID != "" {
		if p, ok := c.profiles[customerID]; ok {
			return copyProfile(p), nil
		}
	}
	if email != "" {
		for _, p := range c.profiles {
			if strings.EqualFold(p.Email, email) {
				return copyProfile(p), nil
			}
		}
	}
	return CustomerProfile{}, ErrCustomerNotFound
}

// GetCustomerTrips returns the customer's trips, optionally filtered by
// exact status match ("completed", "upcoming", "cancelled").
func (c *CustomerServer) GetCustomerTrips(customerID, status string) ([]Trip, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	trips, ok := c.trips[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	if status == "" {
		out := make([]Trip, len(trips))
		copy(out, trips)
		return out, nil
	}
	out := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *CustomerServer) GetCustomerRewards(customerID string) (Rewards, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rewards[customerID]
	if !ok {
		return Rewards{}, ErrCustomerNotFound
	}
	return *r, nil
}

// UpdateCustomerProfile applies a partial update. Only phone and preferences
// are writable; a preferences update merges keys into the existing map
// rather than replacing it.
func (c *CustomerServer) UpdateCustomerProfile(customerID string, updates map[string]any) (CustomerProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.profiles[customerID]
	if !ok {
		return CustomerProfile{}, ErrCustomerNotFound
	}
	if phone, ok := updates["phone"].(string); ok {
		p.Phone = phone
	}
	if prefs, ok := updates["preferences"].(map[string]any); ok {
		for k, v := range prefs {
			p.Preferences[k] = v
		}
	}
	return copyProfile(p), nil
}

func copyProfile(p *CustomerProfile) CustomerProfile {
	out := *p
	out.Preferences = make(map[string]any, len(p.Preferences))
	for k, v := range p.Preferences {
		out.Preferences[k] = v
	}
	return out
}

func intPtr(v int) *int { return &v }

func seedProfiles() map[string]*CustomerProfile {
	return map[string]*CustomerProfile{
		"customer_1": {
			CustomerID:  "customer_1",
			Name:        "John Doe",
			Email:       "john.doe@example.com",
			Phone:       "+1-555-0123",
			LoyaltyTier: "Gold",
			MemberSince: "2020-01-15",
			Preferences: map[string]any{
				"room_type":        "King Suite",
				"floor_preference": "High floor",
				"amenities":        []string{"WiFi", "Gym", "Pool"},
				"special_requests": "Extra pillows",
			},
			TotalBookings: 24,
			TotalSpent:    12500.00,
		},
		"customer_2": {
			CustomerID:  "customer_2",
			Name:        "Jane Smith",
			Email:       "jane.smith@example.com",
			Phone:       "+1-555-0124",
			LoyaltyTier: "Platinum",
			MemberSince: "2019-03-20",
			Preferences: map[string]any{
				"room_type":        "Ocean View",
				"floor_preference": "Any",
				"amenities":        []string{"Spa", "Restaurant", "Bar"},
				"special_requests": "Late checkout",
			},
			TotalBookings: 45,
			TotalSpent:    28000.00,
		},
	}
}

func seedTrips() map[string][]Trip {
	return map[string][]Trip{
		"customer_1": {
			{TripID: "trip_001", HotelName: "Luxury Paris Hotel", Location: "Paris, France", CheckIn: "2024-06-15", CheckOut: "2024-06-20", Status: "completed", TotalCost: 1500.00, RatingGiven: intPtr(5)},
			{TripID: "trip_002", HotelName: "Business Tokyo Hotel", Location: "Tokyo, Japan", CheckIn: "2024-09-10", CheckOut: "2024-09-15", Status: "completed", TotalCost: 2200.00, RatingGiven: intPtr(4)},
			{TripID: "trip_003", HotelName: "Resort Dubai Hotel", Location: "Dubai, UAE", CheckIn: "2025-02-01", CheckOut: "2025-02-07", Status: "upcoming", TotalCost: 3500.00},
		},
		"customer_2": {
			{TripID: "trip_101", HotelName: "Boutique London Hotel", Location: "London, UK", CheckIn: "2024-08-01", CheckOut: "2024-08-05", Status: "completed", TotalCost: 1800.00, RatingGiven: intPtr(5)},
		},
	}
}

func seedRewards() map[string]*Rewards {
	return map[string]*Rewards{
		"customer_1": {
			CustomerID:        "customer_1",
			PointsBalance:     8500,
			PointsEarnedYTD:   12000,
			PointsRedeemedYTD: 3500,
			Tier:              "Gold",
			TierBenefits: []string{
				"Free breakfast",
				"Room upgrade (subject to availability)",
				"Late checkout",
				"10% bonus points",
			},
			Vouchers: []Voucher{
				{VoucherID: "VOUCHER_001", Type: "Discount", Value: 50.00, Expires: "2025-12-31"},
				{VoucherID: "VOUCHER_002", Type: "Free Night", Value: "1 night", Expires: "2025-06-30"},
			},
			NextTier:         "Platinum",
			PointsToNextTier: 1500,
		},
		"customer_2": {
			CustomerID:        "customer_2",
			PointsBalance:     15000,
			PointsEarnedYTD:   22000,
			PointsRedeemedYTD: 7000,
			Tier:              "Platinum",
			TierBenefits: []string{
				"Free breakfast",
				"Guaranteed room upgrade",
				"Late checkout until 4 PM",
				"20% bonus points",
				"Airport lounge access",
			},
			Vouchers: []Voucher{
				{VoucherID: "VOUCHER_101", Type: "Discount", Value: 100.00, Expires: "2025-12-31"},
			},
			NextTier:         "Diamond",
			PointsToNextTier: 5000,
		},
	}
}

func (c *CustomerServer) AvailableTools() []Tool {
	return []Tool{
		{
			Name:        "get_customer_profile",
			Description: "Get customer profile information by customer_id or email",
			Parameters: map[string]string{
				"customer_id": "string (optional)",
				"email":       "string (optional)",
			},
		},
		{
			Name:        "get_customer_trips",
			Description: "Get customer trip history, optionally filtered by status",
			Parameters: map[string]string{
				"customer_id": "string (required)",
				"status":      "string (optional: 'completed', 'upcoming', 'cancelled')",
			},
		},
		{
			Name:        "get_customer_rewards",
			Description: "Get customer rewards, loyalty points, tier, and vouchers",
			Parameters: map[string]string{
				"customer_id": "string (required)",
			},
		},
		{
			Name:        "update_customer_profile",
			Description: "Update customer profile information (phone, preferences)",
			Parameters: map[string]string{
				"customer_id": "string (required)",
				"updates":     "object with fields to update",
			},
		},
	}
}

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-assistant-backend/internal/hotel"
)

func TestSearchAgentParisScenario(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		`{"location": "Paris", "check_in": "2025-02-01", "check_out": "2025-02-05", "guests": 2}`,
		"Here are some great hotels in Paris for your stay.",
	}}
	a := NewSearchAgent(llm, hotel.NewSearchServer())

	res := a.Handle(context.Background(), "Find me a hotel in Paris for 2 guests")

	assert.Equal(t, "search_agent", res.Agent)
	assert.Contains(t, res.Response, "Paris")
	assert.Equal(t, "Paris", res.Params["location"])
	assert.NotZero(t, res.ResultsCount)
	assert.Equal(t, []string{"parse_query", "search_hotels", "filter_results", "format_response"}, res.WorkflowSteps)

	require.NotEmpty(t, res.Hotels)
	for _, h := range res.Hotels {
		assert.NotEmpty(t, h.ID)
		assert.Contains(t, h.Name, "Paris")
	}
}

func TestSearchAgentAppliesFilters(t *testing.T) {
	backend := hotel.NewSearchServer()
	llm := &scriptedLLM{replies: []string{
		`{"location": null, "guests": 1, "max_price": 300, "amenities": ["Pool"]}`,
		"Filtered results coming up.",
	}}
	a := NewSearchAgent(llm, backend)

	res := a.Handle(context.Background(), "hotels under 300 with a pool")

	expected := backend.FilterHotels(0, 300, []string{"Pool"}, "")
	assert.Equal(t, len(expected.Results), res.ResultsCount)
	require.NotEmpty(t, res.Hotels)
}

func TestSearchAgentFallbacksWhenLLMDown(t *testing.T) {
	a := NewSearchAgent(failingLLM{}, hotel.NewSearchServer())

	res := a.Handle(context.Background(), "any hotel")

	// default params search everything, canned format reply carries the count
	assert.Equal(t, 10, res.ResultsCount)
	assert.Contains(t, res.Response, "50 hotel(s)")
}

func TestSearchAgentUnparseableReplyUsesDefaults(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		"Sorry, I can't produce JSON today.",
		"Found plenty of options for you.",
	}}
	a := NewSearchAgent(llm, hotel.NewSearchServer())

	res := a.Handle(context.Background(), "anything works")

	assert.Equal(t, "Found plenty of options for you.", res.Response)
	assert.Equal(t, defaultSearchParams(), res.Params)
}

func TestHasFilters(t *testing.T) {
	assert.False(t, hasFilters(map[string]any{"location": "Paris"}))
	assert.True(t, hasFilters(map[string]any{"min_rating": 4.0}))
	assert.True(t, hasFilters(map[string]any{"max_price": float64(200)}))
	assert.True(t, hasFilters(map[string]any{"amenities": []any{"Pool"}}))
	assert.True(t, hasFilters(map[string]any{"hotel_type": "Luxury"}))
}

package agent

import (
	"context"
	"fmt"
	"log"

	"hotel-assistant-backend/internal/hotel"
	"hotel-assistant-backend/internal/llm"
)

const searchParsePrompt = `You are a hotel search parameter extractor.
Extract location, check_in date, check_out date, number of guests, and any filters (min_rating, max_price, amenities, hotel_type) from the user query.
Return ONLY a JSON object with these fields. Use null for missing values.
Example: {"location": "Paris", "check_in": "2025-01-15", "check_out": "2025-01-20", "guests": 2, "min_rating": 4.0, "max_price": 300}`

const searchFormatPrompt = `You are a helpful hotel search assistant.
Format the search results into a natural, conversational response.
Include hotel names, locations, ratings, prices, and key amenities.
Make it informative but concise.`

// SearchAgent runs the fixed search pipeline:
// parse -> search_hotels -> filter_results -> format_response.
type SearchAgent struct {
	llm     llm.Client
	backend SearchBackend
}

func NewSearchAgent(client llm.Client, backend SearchBackend) *SearchAgent {
	return &SearchAgent{llm: client, backend: backend}
}

func (a *SearchAgent) Handle(ctx context.Context, query string) *Result {
	params := a.parseQuery(ctx, query)

	results := a.backend.SearchHotels(
		strArg(params, "location"),
		strArg(params, "check_in"),
		strArg(params, "check_out"),
		intArg(params, "guests", 1, 1),
	)

	if hasFilters(params) {
		results = a.backend.FilterHotels(
			floatArg(params, "min_rating"),
			intArg(params, "max_price", 0, 0),
			strSliceArg(params, "amenities"),
			strArg(params, "hotel_type"),
		)
	}

	reply := a.formatResponse(ctx, results)

	mentions := make([]HotelMention, 0, len(results.Results))
	for _, h := range results.Results {
		mentions = append(mentions, HotelMention{ID: h.ID, Name: h.Name})
	}

	return &Result{
		Agent:         "search_agent",
		Response:      reply,
		Params:        params,
		ResultsCount:  len(results.Results),
		WorkflowSteps: []string{"parse_query", "search_hotels", "filter_results", "format_response"},
		Hotels:        mentions,
	}
}

func (a *SearchAgent) parseQuery(ctx context.Context, query string) map[string]any {
	raw, err := a.llm.Generate(ctx, searchParsePrompt, query)
	if err != nil {
		log.Printf("search agent: parse call failed: %v", err)
		return defaultSearchParams()
	}
	params, err := parseParams(raw)
	if err != nil {
		log.Printf("search agent: could not decode parameters: %v", err)
		return defaultSearchParams()
	}
	return params
}

func defaultSearchParams() map[string]any {
	return map[string]any{"location": nil, "check_in": nil, "check_out": nil, "guests": 1}
}

func hasFilters(params map[string]any) bool {
	return floatArg(params, "min_rating") > 0 ||
		intArg(params, "max_price", 0, 0) > 0 ||
		len(strSliceArg(params, "amenities")) > 0 ||
		strArg(params, "hotel_type") != ""
}

func (a *SearchAgent) formatResponse(ctx context.Context, results hotel.SearchResult) string {
	reply, err := a.llm.Generate(ctx, searchFormatPrompt, "Search results: "+toJSON(results))
	if err != nil {
		log.Printf("search agent: format call failed: %v", err)
		return fmt.Sprintf("I found %d hotel(s) matching your search.", results.TotalCount)
	}
	return reply
}

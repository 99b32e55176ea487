package agent

import (
	"context"
	"fmt"
	"log"

	"hotel-assistant-backend/internal/llm"
)

const apolloFormatPrompt = `You are a helpful hotel search assistant.
Format the search results from the Apollo MCP server into a natural, conversational response.

If the results contain properties:
- List the hotel names with key details (location, rates, amenities)
- Mention any special offers or promotions
- Be informative but concise

If there's an error or no results:
- Explain the situation politely
- Suggest alternatives or ask for different search criteria

Make the response friendly and helpful.`

// ApolloSearchAgent is the remote-backed search pipeline:
// parse -> search_properties -> enrich_with_details -> format_response.
// The parse prompt embeds the remote tool schema so parameter names follow
// whatever the server advertises.
type ApolloSearchAgent struct {
	llm     llm.Client
	backend PropertyBackend
}

func NewApolloSearchAgent(client llm.Client, backend PropertyBackend) *ApolloSearchAgent {
	return &ApolloSearchAgent{llm: client, backend: backend}
}

func (a *ApolloSearchAgent) Handle(ctx context.Context, query string) *Result {
	params := a.parseQuery(ctx, query)

	results := a.backend.SearchProperties(
		ctx,
		strArg(params, "city"),
		strArg(params, "checkIn"),
		strArg(params, "checkOut"),
		intArg(params, "guests", 1, 1),
		strSliceArg(params, "brands"),
	)

	details := map[string]any{}
	if propertyID := strArg(params, "propertyId"); propertyID != "" {
		details[propertyID] = map[string]any{
			"details": a.backend.GetPropertyDetails(ctx, propertyID),
			"offers":  a.backend.GetPropertyOffers(ctx, propertyID),
		}
	}

	reply := a.formatResponse(ctx, results, details)

	return &Result{
		Agent:         "search_agent_apollo",
		Response:      reply,
		Params:        params,
		ResultsCount:  resultCount(results),
		WorkflowSteps: []string{"parse_query", "search_properties", "enrich_with_details", "format_response"},
	}
}

func (a *ApolloSearchAgent) parseQuery(ctx context.Context, query string) map[string]any {
	prompt := fmt.Sprintf(`You are a hotel search parameter extractor for an Apollo MCP server.

Available MCP Tools:
%s

Analyze the user query and extract parameters for the 'searchrates' tool.
Extract: city, checkIn (YYYY-MM-DD), checkOut (YYYY-MM-DD), guests (number), brands (array of hotel brands if mentioned)

If the user asks about a specific property ID or wants details, also include: propertyId

Return ONLY a valid JSON object with the extracted parameters.
Example: {"city": "Paris", "checkIn": "2025-02-01", "checkOut": "2025-02-05", "guests": 2, "brands": ["Marriott", "Sheraton"]}`,
		toJSON(a.backend.AvailableTools(ctx)))

	raw, err := a.llm.Generate(ctx, prompt, query)
	if err != nil {
		log.Printf("apollo search agent: parse call failed: %v", err)
		return map[string]any{"city": "New York", "guests": 1}
	}
	params, err := parseParams(raw)
	if err != nil {
		log.Printf("apollo search agent: could not decode parameters: %v", err)
		return map[string]any{"city": "New York", "guests": 1}
	}
	return params
}

func (a *ApolloSearchAgent) formatResponse(ctx context.Context, results, details map[string]any) string {
	context := map[string]any{
		"search_results":   results,
		"property_details": details,
	}
	reply, err := a.llm.Generate(ctx, apolloFormatPrompt, "Search results and property data:\n"+toJSON(context))
	if err != nil {
		log.Printf("apollo search agent: format call failed: %v", err)
		return fmt.Sprintf("I found %d propert(ies) for your search.", resultCount(results))
	}
	return reply
}

func resultCount(results map[string]any) int {
	if list, ok := results["results"].([]any); ok {
		return len(list)
	}
	if list, ok := results["results"].([]map[string]any); ok {
		return len(list)
	}
	return 0
}

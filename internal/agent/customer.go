package agent

import (
	"context"
	"log"

	"hotel-assistant-backend/internal/llm"
)

const customerParsePrompt = `You are a customer data query analyzer.
Analyze the user query and extract:
1. customer_id or email (if mentioned)
2. query_type: one of ['profile', 'trips', 'rewards', 'all']
3. trip_status: if asking about trips, specify 'completed', 'upcoming', or null for all

Return ONLY a JSON object.
Example: {"customer_id": "customer_1", "email": null, "query_type": "trips", "trip_status": "upcoming"}`

const customerFormatPrompt = `You are a helpful customer service assistant.
Format the customer data into a friendly, conversational response.
Include relevant details like profile info, trip history, rewards points, loyalty tier, and available vouchers.
Be concise but informative.`

// CustomerAgent runs the linear customer pipeline:
// parse -> fetch_customer_data -> format_response.
type CustomerAgent struct {
	llm     llm.Client
	backend CustomerBackend
}

func NewCustomerAgent(client llm.Client, backend CustomerBackend) *CustomerAgent {
	return &CustomerAgent{llm: client, backend: backend}
}

func (a *CustomerAgent) Handle(ctx context.Context, query string) *Result {
	params := a.parseQuery(ctx, query)

	data, retrieved := a.fetchData(params)

	reply := a.formatResponse(ctx, data)

	return &Result{
		Agent:         "customer_agent",
		Response:      reply,
		Params:        params,
		DataRetrieved: retrieved,
		WorkflowSteps: []string{"parse_customer_query", "fetch_customer_data", "format_response"},
	}
}

func (a *CustomerAgent) parseQuery(ctx context.Context, query string) map[string]any {
	raw, err := a.llm.Generate(ctx, customerParsePrompt, query)
	if err != nil {
		log.Printf("customer agent: parse call failed: %v", err)
		return defaultCustomerParams()
	}
	params, err := parseParams(raw)
	if err != nil {
		log.Printf("customer agent: could not decode parameters: %v", err)
		return defaultCustomerParams()
	}
	return params
}

// defaultCustomerParams assumes the caller wants everything about the demo
// customer when the query could not be parsed.
func defaultCustomerParams() map[string]any {
	return map[string]any{"customer_id": "customer_1", "query_type": "all", "trip_status": nil}
}

func (a *CustomerAgent) fetchData(params map[string]any) (map[string]any, []string) {
	queryType := strArg(params, "query_type")
	if queryType == "" {
		queryType = "all"
	}
	wants := func(t string) bool { return queryType == t || queryType == "all" }

	data := map[string]any{}
	retrieved := []string{}
	customerID := strArg(params, "customer_id")

	if wants("profile") {
		profile, err := a.backend.GetCustomerProfile(customerID, strArg(params, "email"))
		retrieved = append(retrieved, "profile")
		if err != nil {
			data["profile"] = map[string]any{"success": false, "error": err.Error()}
			// Without a resolved customer there is nothing else to fetch.
			return data, retrieved
		}
		data["profile"] = map[string]any{"success": true, "profile": profile}
		customerID = profile.CustomerID
	}

	if wants("trips") {
		trips, err := a.backend.GetCustomerTrips(customerID, strArg(params, "trip_status"))
		retrieved = append(retrieved, "trips")
		if err != nil {
			data["trips"] = map[string]any{"success": false, "error": err.Error()}
		} else {
			data["trips"] = map[string]any{"success": true, "customer_id": customerID, "trips": trips, "total_trips": len(trips)}
		}
	}

	if wants("rewards") {
		rewards, err := a.backend.GetCustomerRewards(customerID)
		retrieved = append(retrieved, "rewards")
		if err != nil {
			data["rewards"] = map[string]any{"success": false, "error": err.Error()}
		} else {
			data["rewards"] = map[string]any{"success": true, "rewards": rewards}
		}
	}

	return data, retrieved
}

func (a *CustomerAgent) formatResponse(ctx context.Context, data map[string]any) string {
	reply, err := a.llm.Generate(ctx, customerFormatPrompt, "Customer data: "+toJSON(data))
	if err != nil {
		log.Printf("customer agent: format call failed: %v", err)
		return "I retrieved your customer information, but I'm having trouble summarizing it right now. Please try again."
	}
	return reply
}

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hotel-assistant-backend/internal/hotel"
)

// Client talks to an Apollo MCP server whose exact wire contract is not
// reliably known in advance. Requests are JSON-RPC 2.0 envelopes POSTed to
// the server root; when the server rejects that shape (404/406/500) a
// GraphQL-style envelope is tried before giving up. Responses may be a single
// JSON object or an SSE stream of "data:" lines.
//
// Transport failures never escape as raw errors: every call returns a map
// with success/error/status_code fields the pipelines can format for the
// user, and the high-level search/detail helpers degrade to clearly-flagged
// synthetic data.
type Client struct {
	serverURL  string
	httpClient *http.Client
	requestID  atomic.Int64

	mu           sync.Mutex
	toolsCache   []hotel.Tool
	initialized  bool
	capabilities map[string]any
}

func NewClient(serverURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	c.initializeSession()
	return c
}

// Initialized reports whether the handshake succeeded. A false value means
// the client runs degraded and relies on fallback schemas and synthetic data.
func (c *Client) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Client) Capabilities() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capabilities
}

func (c *Client) initializeSession() {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      c.requestID.Add(1),
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"roots": map[string]any{"listChanged": true},
			},
			"clientInfo": map[string]any{
				"name":    "hotel-assistant-backend",
				"version": "1.0.0",
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
	defer cancel()
	resp, _, err := c.send(ctx, msg)
	if err != nil {
		log.Printf("mcp: session initialize failed: %v (continuing with fallback data)", err)
		return
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		log.Printf("mcp: initialize did not return expected result: %v", resp)
		return
	}
	c.mu.Lock()
	c.initialized = true
	if caps, ok := result["capabilities"].(map[string]any); ok {
		c.capabilities = caps
	}
	c.mu.Unlock()
	log.Printf("mcp: session initialized with %s", c.serverURL)
}

// send POSTs one envelope and decodes the reply, accepting either a plain
// JSON object or an SSE stream where the last parseable "data:" line wins.
func (c *Client) send(ctx context.Context, payload map[string]any) (map[string]any, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("mcp server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	result := parseResponseBody(raw)
	if result == nil {
		return nil, resp.StatusCode, fmt.Errorf("no parseable response from server")
	}
	return result, resp.StatusCode, nil
}

func parseResponseBody(raw []byte) map[string]any {
	var whole map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &whole); err == nil {
		return whole
	}

	// SSE or newline-delimited JSON: last parseable line wins.
	var last map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "data:")
		line = strings.TrimSpace(line)
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			last = obj
		}
	}
	return last
}

// retryableStatus marks the "protocol shape rejected, try the next envelope"
// class of responses.
func retryableStatus(status int) bool {
	return status == http.StatusNotFound || status == http.StatusNotAcceptable || status == http.StatusInternalServerError
}

func failure(errMsg string, status int) map[string]any {
	out := map[string]any{"success": false, "error": errMsg}
	if status != 0 {
		out["status_code"] = status
	}
	return out
}

// CallTool invokes a named tool, trying each envelope shape in order until
// one is accepted.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) map[string]any {
	envelopes := []func(string, map[string]any) (map[string]any, bool){
		c.jsonRPCEnvelope,
		c.graphQLEnvelope,
	}

	var last map[string]any
	for _, build := range envelopes {
		payload, ok := build(name, args)
		if !ok {
			continue
		}
		resp, status, err := c.send(ctx, payload)
		if err != nil {
			last = failure(err.Error(), status)
			if retryableStatus(status) {
				continue
			}
			return last
		}
		if rpcErr, ok := resp["error"]; ok {
			return failure(rpcErrorMessage(rpcErr), status)
		}
		if result, ok := resp["result"].(map[string]any); ok {
			return result
		}
		return resp
	}
	if last == nil {
		last = failure(fmt.Sprintf("no envelope shape accepted for tool %s", name), 0)
	}
	return last
}

func rpcErrorMessage(e any) string {
	if m, ok := e.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok {
			return msg
		}
	}
	return fmt.Sprintf("%v", e)
}

func (c *Client) jsonRPCEnvelope(name string, args map[string]any) (map[string]any, bool) {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      c.requestID.Add(1),
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}, true
}

// graphQLEnvelope is the fallback shape for servers that expose the tools as
// GraphQL queries instead of JSON-RPC methods. Only the three known tools
// have query templates.
func (c *Client) graphQLEnvelope(name string, args map[string]any) (map[string]any, bool) {
	var query string
	switch name {
	case "get_property":
		query = `query GetProperty($propertyId: String!) {
  getProperty(propertyId: $propertyId) { id name location amenities rating }
}`
	case "searchrates":
		query = `query SearchRates($city: String!, $checkIn: String, $checkOut: String, $guests: Int, $brands: [String]) {
  searchRates(city: $city, checkIn: $checkIn, checkOut: $checkOut, guests: $guests, brands: $brands) {
    properties { id name city rate }
  }
}`
	case "marketing":
		query = `query GetMarketing($propertyId: String!) {
  getMarketing(propertyId: $propertyId) { offers promotions }
}`
	default:
		return nil, false
	}
	return map[string]any{"query": query, "variables": args}, true
}

// AvailableTools returns the remote tool schema, cached after the first
// fetch. A failed fetch seeds the cache with the built-in schema so the rest
// of the system always has something stable to reason about.
func (c *Client) AvailableTools(ctx context.Context) []hotel.Tool {
	c.mu.Lock()
	if c.toolsCache != nil {
		defer c.mu.Unlock()
		return c.toolsCache
	}
	c.mu.Unlock()

	tools, err := c.fetchTools(ctx)
	if err != nil {
		log.Printf("mcp: could not fetch tools (%v), using default schema", err)
		tools = defaultTools()
	}

	c.mu.Lock()
	c.toolsCache = tools
	c.mu.Unlock()
	return tools
}

func (c *Client) fetchTools(ctx context.Context) ([]hotel.Tool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/tools", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tools endpoint returned status %d", resp.StatusCode)
	}
	var body struct {
		Tools []hotel.Tool `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Tools) == 0 {
		return nil, fmt.Errorf("tools endpoint returned no tools")
	}
	return body.Tools, nil
}

func defaultTools() []hotel.Tool {
	return []hotel.Tool{
		{
			Name:        "get_property",
			Description: "Get property details by property ID",
			Parameters: map[string]string{
				"propertyId": "string (required) - The unique identifier for the property",
			},
		},
		{
			Name:        "searchrates",
			Description: "Search for hotels in a city with dates, guests, and brands",
			Parameters: map[string]string{
				"city":     "string (required) - City name to search in",
				"checkIn":  "string (required) - Check-in date in YYYY-MM-DD format",
				"checkOut": "string (required) - Check-out date in YYYY-MM-DD format",
				"guests":   "integer (optional) - Number of guests",
				"brands":   "array of strings (optional) - Hotel brands to filter",
			},
		},
		{
			Name:        "marketing",
			Description: "Get marketing offers and promotions available at a property",
			Parameters: map[string]string{
				"propertyId": "string (required) - The unique identifier for the property",
			},
		},
	}
}

func syntheticFailure(result map[string]any) bool {
	if ok, exists := result["success"].(bool); exists && !ok {
		switch sc := result["status_code"].(type) {
		case int:
			return retryableStatus(sc)
		case float64:
			return retryableStatus(int(sc))
		}
	}
	return false
}

// SearchProperties searches via the searchrates tool, degrading to synthetic
// placeholder results when the server definitively rejects the call.
func (c *Client) SearchProperties(ctx context.Context, city, checkIn, checkOut string, guests int, brands []string) map[string]any {
	args := map[string]any{}
	if city != "" {
		args["city"] = city
	}
	if checkIn != "" {
		args["checkIn"] = checkIn
	}
	if checkOut != "" {
		args["checkOut"] = checkOut
	}
	if guests > 0 {
		args["guests"] = guests
	}
	if len(brands) > 0 {
		args["brands"] = brands
	}

	result := c.CallTool(ctx, "searchrates", args)
	if syntheticFailure(result) {
		log.Printf("mcp: remote search failed, returning synthetic results for %q", city)
		if city == "" {
			city = "Unknown"
		}
		return map[string]any{
			"success": true,
			"results": []map[string]any{
				{
					"id":        city + "_hotel_1",
					"name":      "Marriott " + city + " Hotel",
					"city":      city,
					"rating":    4.5,
					"rate":      199,
					"amenities": []string{"WiFi", "Pool", "Gym"},
				},
				{
					"id":        city + "_hotel_2",
					"name":      "Sheraton " + city + " Hotel",
					"city":      city,
					"rating":    4.3,
					"rate":      179,
					"amenities": []string{"WiFi", "Restaurant", "Bar"},
				},
			},
			"total_count": 2,
			"synthetic":   true,
			"note":        "This is synthetic data - remote MCP server connection failed",
		}
	}
	return result
}

// GetPropertyDetails fetches one property, with the same synthetic fallback.
func (c *Client) GetPropertyDetails(ctx context.Context, propertyID string) map[string]any {
	result := c.CallTool(ctx, "get_property", map[string]any{"propertyId": propertyID})
	if syntheticFailure(result) {
		log.Printf("mcp: remote detail fetch failed, returning synthetic data for property %s", propertyID)
		return map[string]any{
			"success": true,
			"property": map[string]any{
				"id":          propertyID,
				"name":        "Property " + propertyID,
				"location":    "New York, NY",
				"rating":      4.5,
				"amenities":   []string{"WiFi", "Pool", "Gym", "Restaurant"},
				"description": "A wonderful property in a great location",
			},
			"synthetic": true,
			"note":      "This is synthetic data - remote MCP server connection failed",
		}
	}
	return result
}

// GetPropertyOffers fetches marketing offers for a property.
func (c *Client) GetPropertyOffers(ctx context.Context, propertyID string) map[string]any {
	return c.CallTool(ctx, "marketing", map[string]any{"propertyId": propertyID})
}

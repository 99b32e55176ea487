package agent

import (
	"context"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hotel-assistant-backend/internal/llm"
)

// IntentSpec drives the coordinator's classifier: the system prompt sent to
// the model, the label keywords matched against its reply, and the canned
// reply for the catch-all label.
type IntentSpec struct {
	System string `yaml:"system"`
	Labels []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"labels"`
	Fallback     string `yaml:"fallback"`
	GeneralReply string `yaml:"general_reply"`
}

const (
	intentSearch   = "search"
	intentBooking  = "booking"
	intentCustomer = "customer"
	intentGeneral  = "general"
)

func defaultIntentSpec() IntentSpec {
	return IntentSpec{
		System: `You are an intent classifier for a hotel assistant.
Classify the user's message into one of these intents:
- 'search': User wants to search for hotels, get hotel information, or browse options
- 'booking': User wants to book a hotel, make a reservation, or confirm a booking
- 'customer': User asks about their profile, trips, rewards, or loyalty account
- 'general': General queries or greetings

Respond with ONLY one word: search, booking, customer, or general`,
		Labels: []struct {
			Name     string   `yaml:"name"`
			Keywords []string `yaml:"keywords"`
		}{
			{Name: intentSearch, Keywords: []string{"search"}},
			{Name: intentBooking, Keywords: []string{"book"}},
			{Name: intentCustomer, Keywords: []string{"customer", "profile", "reward", "trip"}},
		},
		Fallback:     intentGeneral,
		GeneralReply: "I can help you search for hotels, make bookings, or look up your profile, trips, and rewards. What would you like to do?",
	}
}

// LoadIntentSpec reads the classifier spec from a YAML file, falling back to
// the built-in spec when the file is missing or malformed.
func LoadIntentSpec(path string) IntentSpec {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("coordinator: intent spec %s not readable (%v), using built-in defaults", path, err)
		return defaultIntentSpec()
	}
	var spec IntentSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		log.Printf("coordinator: intent spec %s not parseable (%v), using built-in defaults", path, err)
		return defaultIntentSpec()
	}
	def := defaultIntentSpec()
	if strings.TrimSpace(spec.System) == "" {
		spec.System = def.System
	}
	if len(spec.Labels) == 0 {
		spec.Labels = def.Labels
	}
	if spec.Fallback == "" {
		spec.Fallback = def.Fallback
	}
	if spec.GeneralReply == "" {
		spec.GeneralReply = def.GeneralReply
	}
	return spec
}

// Coordinator classifies free text into one task label and dispatches to the
// matching pipeline. The general label answers with a canned reply and never
// touches a pipeline or backend.
type Coordinator struct {
	llm      llm.Client
	spec     IntentSpec
	search   Pipeline
	booking  Pipeline
	customer Pipeline
}

func NewCoordinator(client llm.Client, spec IntentSpec, search, booking, customer Pipeline) *Coordinator {
	return &Coordinator{
		llm:      client,
		spec:     spec,
		search:   search,
		booking:  booking,
		customer: customer,
	}
}

func (c *Coordinator) Route(ctx context.Context, message string) *Result {
	intent := c.classify(ctx, message)

	var result *Result
	switch intent {
	case intentSearch:
		result = c.search.Handle(ctx, message)
	case intentBooking:
		result = c.booking.Handle(ctx, message)
	case intentCustomer:
		result = c.customer.Handle(ctx, message)
	default:
		result = &Result{Agent: "coordinator", Response: c.spec.GeneralReply}
	}
	result.Intent = intent
	return result
}

// classify makes one constrained LLM call and matches the reply by
// substring, tolerating decoration around the label word. Anything
// unrecognized (including an LLM failure) lands on the fallback label.
func (c *Coordinator) classify(ctx context.Context, message string) string {
	reply, err := c.llm.Generate(ctx, c.spec.System, message)
	if err != nil {
		log.Printf("coordinator: intent classification failed: %v", err)
		return c.spec.Fallback
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	for _, label := range c.spec.Labels {
		for _, kw := range label.Keywords {
			if strings.Contains(reply, kw) {
				return label.Name
			}
		}
	}
	return c.spec.Fallback
}

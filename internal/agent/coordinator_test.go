package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(llm *scriptedLLM) (*Coordinator, *recordingPipeline, *recordingPipeline, *recordingPipeline) {
	search := &recordingPipeline{name: "search_agent"}
	booking := &recordingPipeline{name: "booking_agent"}
	customer := &recordingPipeline{name: "customer_agent"}
	return NewCoordinator(llm, defaultIntentSpec(), search, booking, customer), search, booking, customer
}

func TestRouteDispatch(t *testing.T) {
	tests := []struct {
		name       string
		classified string
		wantAgent  string
		wantIntent string
	}{
		{"search", "search", "search_agent", "search"},
		{"booking", "booking", "booking_agent", "booking"},
		{"customer", "customer", "customer_agent", "customer"},
		{"decorated label", "The intent is: Search.", "search_agent", "search"},
		{"trips keyword", "trip", "customer_agent", "customer"},
		{"unrecognized", "weather", "coordinator", "general"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := &scriptedLLM{replies: []string{tc.classified}}
			c, _, _, _ := newTestCoordinator(llm)

			res := c.Route(context.Background(), "hello")
			assert.Equal(t, tc.wantAgent, res.Agent)
			assert.Equal(t, tc.wantIntent, res.Intent)
		})
	}
}

func TestRoutePassesMessageThrough(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"booking"}}
	c, _, booking, _ := newTestCoordinator(llm)

	c.Route(context.Background(), "book hotel_1 for two nights")
	require.Len(t, booking.queries, 1)
	assert.Equal(t, "book hotel_1 for two nights", booking.queries[0])
}

func TestRouteGeneralSkipsPipelines(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"general"}}
	c, search, booking, customer := newTestCoordinator(llm)

	res := c.Route(context.Background(), "hi there")
	assert.Equal(t, "general", res.Intent)
	assert.Equal(t, defaultIntentSpec().GeneralReply, res.Response)
	assert.Empty(t, search.queries)
	assert.Empty(t, booking.queries)
	assert.Empty(t, customer.queries)
}

func TestClassifierFailureFallsBackToGeneral(t *testing.T) {
	c := NewCoordinator(failingLLM{}, defaultIntentSpec(),
		&recordingPipeline{name: "search_agent"},
		&recordingPipeline{name: "booking_agent"},
		&recordingPipeline{name: "customer_agent"})

	res := c.Route(context.Background(), "find me a hotel in Paris")
	assert.Equal(t, "general", res.Intent)
	assert.Equal(t, "coordinator", res.Agent)
	assert.NotEmpty(t, res.Response)
}

func TestLoadIntentSpecMissingFile(t *testing.T) {
	spec := LoadIntentSpec("does/not/exist.yaml")
	assert.Equal(t, defaultIntentSpec(), spec)
}

func TestLoadIntentSpecOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intent.yaml")
	content := `
system: "Classify strictly."
labels:
  - name: search
    keywords: ["search", "find"]
fallback: general
general_reply: "How can I help?"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	spec := LoadIntentSpec(path)
	assert.Equal(t, "Classify strictly.", spec.System)
	require.Len(t, spec.Labels, 1)
	assert.Equal(t, []string{"search", "find"}, spec.Labels[0].Keywords)
	assert.Equal(t, "How can I help?", spec.GeneralReply)
}

func TestLoadIntentSpecPartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`general_reply: "Hey."`), 0o644))

	spec := LoadIntentSpec(path)
	assert.Equal(t, "Hey.", spec.GeneralReply)
	assert.Equal(t, defaultIntentSpec().System, spec.System)
	assert.NotEmpty(t, spec.Labels)
	assert.Equal(t, "general", spec.Fallback)
}

package types

type ChatRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Message        string `json:"message"`
}

type ChatResponse struct {
	ConversationID string         `json:"conversationId,omitempty"`
	Reply          string         `json:"reply"`
	Agent          string         `json:"agent"`
	Transcript     string         `json:"transcript,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

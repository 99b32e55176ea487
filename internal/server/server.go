package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"

	"hotel-assistant-backend/internal/agent"
	"hotel-assistant-backend/internal/config"
	"hotel-assistant-backend/internal/db"
	"hotel-assistant-backend/internal/hotel"
	"hotel-assistant-backend/internal/llm"
	"hotel-assistant-backend/internal/mcp"
	"hotel-assistant-backend/internal/store"
	"hotel-assistant-backend/internal/types"
)

type Server struct {
	router        *chi.Mux
	cfg           config.Config
	store         *store.MemoryStore
	llm           *llm.OpenAI
	booking       *hotel.BookingServer
	search        *hotel.SearchServer
	customer      *hotel.CustomerServer
	mcp           *mcp.Client
	coordinator   *agent.Coordinator
	database      *db.DB
	conversations *store.ConversationStore
}

func NewServer(cfg config.Config) (*Server, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	llmClient := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.Temperature)

	bookingSrv := hotel.NewBookingServer()
	searchSrv := hotel.NewSearchServer()
	customerSrv := hotel.NewCustomerServer()

	var mcpClient *mcp.Client
	var searchPipeline agent.Pipeline = agent.NewSearchAgent(llmClient, searchSrv)
	if cfg.SearchBackend == "apollo" {
		mcpClient = mcp.NewClient(cfg.ApolloMCPURL, 30*time.Second)
		searchPipeline = agent.NewApolloSearchAgent(llmClient, mcpClient)
	}

	coordinator := agent.NewCoordinator(
		llmClient,
		agent.LoadIntentSpec(cfg.IntentSpecPath),
		searchPipeline,
		agent.NewBookingAgent(llmClient, bookingSrv),
		agent.NewCustomerAgent(llmClient, customerSrv),
	)

	var database *db.DB
	var conversations *store.ConversationStore
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("database connection established")
		if err := database.RunMigrations("./migrations"); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		conversations = store.NewConversationStore(database)
	} else {
		log.Println("warning: DB_URL not provided, conversation history will not be persisted")
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:        r,
		cfg:           cfg,
		store:         store.NewMemoryStore(40),
		llm:           llmClient,
		booking:       bookingSrv,
		search:        searchSrv,
		customer:      customerSrv,
		mcp:           mcpClient,
		coordinator:   coordinator,
		database:      database,
		conversations: conversations,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/chat/stream", s.handleChatStream)
	s.router.Post("/api/voice", s.handleVoice)
	s.router.Get("/api/mcp-servers", s.handleMCPServers)
	s.router.Post("/api/conversations", s.handleCreateConversation)
	s.router.Get("/api/conversations/{id}", s.handleGetConversation)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) Close() {
	if s.database != nil {
		s.database.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"status":         "healthy",
		"search_backend": s.cfg.SearchBackend,
		"database":       s.database != nil,
	}
	if s.mcp != nil {
		out["mcp_initialized"] = s.mcp.Initialized()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sid := getOrCreateSessionID(r, w)

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()
	s.routeAndRespond(ctx, w, sid, req.ConversationID, req.Message, "")
}

// routeAndRespond is the shared tail of the chat and voice handlers: route
// the message through the coordinator, update session state, persist, reply.
func (s *Server) routeAndRespond(ctx context.Context, w http.ResponseWriter, sid, conversationID, message, transcript string) {
	s.store.Append(sid, store.Message{Role: "user", Content: message})

	// If a recent search surfaced a hotel the user now refers to by name,
	// hand its id to the pipeline alongside the raw text.
	routed := message
	if ref, ok := s.store.ResolveHotel(sid, message); ok {
		routed = fmt.Sprintf("%s\n(Context: the mentioned hotel has hotel_id %s)", message, ref.ID)
	}

	result := s.coordinator.Route(ctx, routed)

	s.store.Append(sid, store.Message{Role: "assistant", Content: result.Response, Agent: result.Agent})
	if len(result.Hotels) > 0 {
		refs := make([]store.HotelRef, 0, len(result.Hotels))
		for _, h := range result.Hotels {
			refs = append(refs, store.HotelRef{ID: h.ID, Name: h.Name})
		}
		s.store.SetLastHotels(sid, refs)
	}

	if conversationID != "" && s.conversations != nil {
		if err := s.conversations.AppendMessage(conversationID, "user", message, ""); err != nil {
			log.Println("failed to persist user message:", err)
		}
		if err := s.conversations.AppendMessage(conversationID, "assistant", result.Response, result.Agent); err != nil {
			log.Println("failed to persist assistant message:", err)
		}
	}

	metadata := map[string]any{
		"intent":         result.Intent,
		"workflow_steps": result.WorkflowSteps,
		"params":         result.Params,
	}
	if result.ResultsCount > 0 {
		metadata["results_count"] = result.ResultsCount
	}
	if result.BookingStatus != "" {
		metadata["booking_status"] = result.BookingStatus
	}
	if len(result.DataRetrieved) > 0 {
		metadata["data_retrieved"] = result.DataRetrieved
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.ChatResponse{
		ConversationID: conversationID,
		Reply:          result.Response,
		Agent:          result.Agent,
		Transcript:     transcript,
		Metadata:       metadata,
	})
}

// handleChatStream is plain streaming chat over the session history, outside
// the task pipelines. Useful for free-form conversation.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sid := getOrCreateSessionID(r, w)
	s.store.Append(sid, store.Message{Role: "user", Content: req.Message})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Session-Id", sid)
	w.Header().Set("Cache-Control", "no-cache")

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	stream, err := s.llm.Raw().CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    s.llm.Model(),
		Messages: s.convertMessages(s.store.Get(sid)),
		Stream:   true,
	})
	if err != nil {
		log.Println("openai stream error:", err)
		s.writeError(w, http.StatusBadGateway, "chat stream init failed")
		return
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		response, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Println("stream recv error:", err)
			break
		}
		if len(response.Choices) == 0 {
			continue
		}
		chunk := response.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		builder.WriteString(chunk)
		_, _ = w.Write([]byte(chunk))
		flusher.Flush()
	}
	final := builder.String()
	if strings.TrimSpace(final) != "" {
		s.store.Append(sid, store.Message{Role: "assistant", Content: final})
	}
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	sid := getOrCreateSessionID(r, w)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "audio file is required (field 'file')")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 180*time.Second)
	defer cancel()

	tr, err := s.llm.Raw().CreateTranscription(ctx, openai.AudioRequest{
		Model:    "whisper-1",
		Reader:   file,
		FilePath: header.Filename,
	})
	if err != nil {
		log.Println("transcription error:", err)
		s.writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	transcribed := strings.TrimSpace(tr.Text)
	if transcribed == "" {
		s.writeError(w, http.StatusBadGateway, "empty transcription")
		return
	}

	s.routeAndRespond(ctx, w, sid, r.FormValue("conversationId"), transcribed, transcribed)
}

func (s *Server) handleMCPServers(w http.ResponseWriter, r *http.Request) {
	searchInfo := map[string]any{
		"type":  s.cfg.SearchBackend,
		"tools": s.search.AvailableTools(),
	}
	if s.mcp != nil {
		searchInfo["url"] = s.cfg.ApolloMCPURL
		searchInfo["initialized"] = s.mcp.Initialized()
		searchInfo["tools"] = s.mcp.AvailableTools(r.Context())
	}
	out := map[string]any{
		"search_server":   searchInfo,
		"booking_server":  map[string]any{"type": "mock", "tools": s.booking.AvailableTools()},
		"customer_server": map[string]any{"type": "mock", "tools": s.customer.AvailableTools()},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	if s.conversations == nil {
		s.writeError(w, http.StatusServiceUnavailable, "conversation persistence is not configured")
		return
	}
	conv, err := s.conversations.CreateConversation()
	if err != nil {
		log.Println("failed to create conversation:", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(conv)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	if s.conversations == nil {
		s.writeError(w, http.StatusServiceUnavailable, "conversation persistence is not configured")
		return
	}
	conv, err := s.conversations.GetConversation(chi.URLParam(r, "id"))
	if err != nil {
		log.Println("failed to get conversation:", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	if conv == nil {
		s.writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(conv)
}

func (s *Server) convertMessages(msgs []store.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := m.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}


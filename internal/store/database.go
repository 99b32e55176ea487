package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel-assistant-backend/internal/db"
)

// ConversationStore is the append-only conversation log in Postgres. The
// agent core only ever appends after a pipeline completes; reads exist for
// the REST surface.
type ConversationStore struct {
	db *db.DB
}

func NewConversationStore(database *db.DB) *ConversationStore {
	return &ConversationStore{db: database}
}

type ConversationMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string                `json:"id"`
	Messages  []ConversationMessage `json:"messages"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CreateConversation inserts a new empty conversation and returns it.
func (cs *ConversationStore) CreateConversation() (*Conversation, error) {
	conv := &Conversation{
		ID:        uuid.NewString(),
		Messages:  []ConversationMessage{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := cs.db.Exec(
		"INSERT INTO conversations (id, created_at, updated_at) VALUES ($1, $2, $3)",
		conv.ID, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// AppendMessage adds one role-tagged message to a conversation, creating the
// conversation row if the caller supplied an id the store has never seen.
func (cs *ConversationStore) AppendMessage(conversationID, role, content, agent string) error {
	if conversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	now := time.Now().UTC()
	if _, err := cs.db.Exec(`
		INSERT INTO conversations (id, created_at, updated_at) VALUES ($1, $2, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = $2
	`, conversationID, now); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	if _, err := cs.db.Exec(`
		INSERT INTO conversation_messages (id, conversation_id, role, content, agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), conversationID, role, content, agent, now); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetConversation returns a conversation with its messages in append order,
// or nil when the id is unknown.
func (cs *ConversationStore) GetConversation(conversationID string) (*Conversation, error) {
	var conv Conversation
	err := cs.db.QueryRow(
		"SELECT id, created_at, updated_at FROM conversations WHERE id = $1",
		conversationID,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	rows, err := cs.db.Query(`
		SELECT id, role, content, COALESCE(agent, ''), created_at
		FROM conversation_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation messages: %w", err)
	}
	defer rows.Close()

	conv.Messages = []ConversationMessage{}
	for rows.Next() {
		var m ConversationMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Agent, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	return &conv, rows.Err()
}

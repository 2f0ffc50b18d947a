package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleError marks failure records written by the service itself.
	// It is never accepted from clients.
	RoleError Role = "error"
)

// ValidRole reports whether the role may be supplied by a client.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

const DefaultTitle = "New Conversation"

// Message is a single entry in a conversation's embedded message array.
type Message struct {
	Content   string         `bson:"content" json:"content"`
	Role      Role           `bson:"role" json:"role"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Conversation is the root document. Messages are embedded; a conversation
// is visible to its owner only while IsActive and not IsDeleted.
type Conversation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ConversationID string             `bson:"conversationId" json:"conversationId"`
	UserID         string             `bson:"userId" json:"userId"`
	Title          string             `bson:"title" json:"title"`
	Messages       []Message          `bson:"messages" json:"messages"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	IsDeleted      bool               `bson:"isDeleted" json:"isDeleted"`
	DeletedAt      *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewConversation builds an owned conversation with a generated ID. When
// initialContent is non-empty the conversation is seeded with a first user
// message carrying the given metadata.
func NewConversation(userID, title, initialContent string, metadata map[string]any) *Conversation {
	now := time.Now().UTC()
	if title == "" {
		title = DefaultTitle
	}
	conv := &Conversation{
		ConversationID: uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Messages:       []Message{},
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if initialContent != "" {
		conv.Messages = append(conv.Messages, Message{
			Content:   initialContent,
			Role:      RoleUser,
			Timestamp: now,
			Metadata:  metadata,
		})
	}
	return conv
}

// MessageCount returns the number of embedded messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// MessageWindow slices the chronologically ordered message array so that
// page 1 yields the most recent limit messages, page 2 the limit before
// those, and so on. The returned slice stays in chronological order.
func (c *Conversation) MessageWindow(page, limit int) []Message {
	total := len(c.Messages)
	start := total - page*limit
	if start < 0 {
		start = 0
	}
	end := total - (page-1)*limit
	if end <= 0 {
		return []Message{}
	}
	return c.Messages[start:end]
}

// ConversationUpdate carries the fields a partial update may change.
// Nil fields are left untouched.
type ConversationUpdate struct {
	Title    *string
	IsActive *bool
}

// ConversationPage is a page of conversations with the owner's total.
type ConversationPage struct {
	Conversations []*Conversation
	Total         int64
}

// Repository is the persistence contract for conversations. Every lookup
// is scoped to the owning user; a conversation that exists but belongs to
// someone else is reported as not found.
type Repository interface {
	List(ctx context.Context, userID string, page, limit int) (*ConversationPage, error)
	GetByID(ctx context.Context, userID, conversationID string) (*Conversation, error)
	Create(ctx context.Context, conversation *Conversation) error
	AppendMessage(ctx context.Context, userID, conversationID string, message Message) (*Conversation, error)
	Update(ctx context.Context, userID, conversationID string, update ConversationUpdate) (*Conversation, error)
	SoftDelete(ctx context.Context, userID, conversationID string) error
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

package chatrequests

import (
	"github.com/zelican/chat-api/internal/domain/chat"
)

// MessageMetadata is the client-suppliable message annotation.
type MessageMetadata struct {
	Model  string `json:"model,omitempty" binding:"omitempty,max=100"`
	Tokens *int   `json:"tokens,omitempty" binding:"omitempty,min=0"`
}

// ToMap converts metadata into the domain's free-form representation,
// returning nil when nothing was supplied.
func (m *MessageMetadata) ToMap() map[string]any {
	if m == nil {
		return nil
	}
	out := map[string]any{}
	if m.Model != "" {
		out["model"] = m.Model
	}
	if m.Tokens != nil {
		out["tokens"] = *m.Tokens
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CreateConversationRequest represents the request to create a conversation
type CreateConversationRequest struct {
	Title          string           `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	InitialMessage string           `json:"initialMessage,omitempty" binding:"omitempty,min=1,max=10000"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
}

// AddMessageRequest represents the request to append a message. An
// omitted role defaults to user.
type AddMessageRequest struct {
	Content  string           `json:"content" binding:"required,min=1,max=10000"`
	Role     chat.Role        `json:"role" binding:"omitempty,oneof=user assistant system"`
	Metadata *MessageMetadata `json:"metadata,omitempty"`
}

// UpdateConversationRequest represents a partial conversation update
type UpdateConversationRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitnil,min=1,max=200"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ToDomain maps the update request onto the domain update struct.
func (r *UpdateConversationRequest) ToDomain() chat.ConversationUpdate {
	return chat.ConversationUpdate{
		Title:    r.Title,
		IsActive: r.IsActive,
	}
}

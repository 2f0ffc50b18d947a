package chat

import (
	"context"
	"time"

	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

// Service implements the conversation use cases on top of a Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListConversations returns the user's visible conversations, most recently
// updated first.
func (s *Service) ListConversations(ctx context.Context, userID string, page, limit int) (*ConversationPage, error) {
	result, err := s.repo.List(ctx, userID, page, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return result, nil
}

// GetConversation returns a single owned conversation.
func (s *Service) GetConversation(ctx context.Context, userID, conversationID string) (*Conversation, error) {
	conv, err := s.repo.GetByID(ctx, userID, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to get conversation")
	}
	return conv, nil
}

// CreateConversation creates a conversation for the user, optionally seeded
// with an initial user message.
func (s *Service) CreateConversation(ctx context.Context, userID, title, initialMessage string, metadata map[string]any) (*Conversation, error) {
	conv := NewConversation(userID, title, initialMessage, metadata)
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	return conv, nil
}

// AddMessage appends a message to an owned active conversation and
// returns the stored message alongside the updated conversation. An
// empty role defaults to RoleUser.
func (s *Service) AddMessage(ctx context.Context, userID, conversationID string, content string, role Role, metadata map[string]any) (*Conversation, *Message, error) {
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "invalid message role", nil, "")
	}
	msg := Message{
		Content:   content,
		Role:      role,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	conv, err := s.repo.AppendMessage(ctx, userID, conversationID, msg)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add message")
	}
	return conv, &msg, nil
}

// UpdateConversation applies a partial update to an owned conversation.
func (s *Service) UpdateConversation(ctx context.Context, userID, conversationID string, update ConversationUpdate) (*Conversation, error) {
	conv, err := s.repo.Update(ctx, userID, conversationID, update)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation")
	}
	return conv, nil
}

// DeleteConversation soft deletes an owned conversation. Deleting an
// already deleted conversation reports not found.
func (s *Service) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if err := s.repo.SoftDelete(ctx, userID, conversationID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}

// MessagePage is one window of a conversation's messages.
type MessagePage struct {
	Messages []Message
	Total    int
}

// ListMessages returns a page of messages where page 1 holds the most
// recent limit messages in chronological order.
func (s *Service) ListMessages(ctx context.Context, userID, conversationID string, page, limit int) (*MessagePage, error) {
	conv, err := s.repo.GetByID(ctx, userID, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return &MessagePage{
		Messages: conv.MessageWindow(page, limit),
		Total:    conv.MessageCount(),
	}, nil
}

// PurgeDeleted permanently removes conversations soft deleted before the
// cutoff. Used by the retention job only.
func (s *Service) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	removed, err := s.repo.PurgeDeleted(ctx, olderThan)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to purge deleted conversations")
	}
	return removed, nil
}

package chathandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/domain/chat"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/requests"
	chatrequests "github.com/zelican/chat-api/internal/interfaces/httpserver/requests/chat"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/responses"
)

// ChatHandler exposes the conversation CRUD surface. Every operation is
// scoped to the resolved principal.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

func New(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{service: service, log: log}
}

// PaginationMeta describes one page of a collection response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PaginationMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ConversationSummary is the list-view projection without messages.
type ConversationSummary struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	MessageCount   int       `json:"messageCount"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func summarize(conv *chat.Conversation) ConversationSummary {
	return ConversationSummary{
		ConversationID: conv.ConversationID,
		Title:          conv.Title,
		MessageCount:   conv.MessageCount(),
		IsActive:       conv.IsActive,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
	}
}

// ListConversations returns the principal's conversations, most recently
// updated first.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "Invalid pagination")
		return
	}

	page, err := h.service.ListConversations(c.Request.Context(), principal.UserID, pagination.Page, pagination.Limit)
	if err != nil {
		responses.HandleError(c, err, "Failed to list conversations")
		return
	}

	summaries := make([]ConversationSummary, 0, len(page.Conversations))
	for _, conv := range page.Conversations {
		summaries = append(summaries, summarize(conv))
	}

	responses.OK(c, http.StatusOK, gin.H{
		"conversations": summaries,
		"pagination":    newPaginationMeta(pagination.Page, pagination.Limit, page.Total),
	})
}

// CreateConversation creates a conversation, optionally seeded with an
// initial user message.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	var req chatrequests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.FailValidation(c, "Validation failed", requests.FieldErrors(err))
		return
	}

	conv, err := h.service.CreateConversation(c.Request.Context(), principal.UserID, req.Title, req.InitialMessage, req.Metadata.ToMap())
	if err != nil {
		responses.HandleError(c, err, "Failed to create conversation")
		return
	}

	responses.OKMessage(c, http.StatusCreated, "Conversation created", gin.H{"conversation": conv})
}

// GetConversation returns one owned conversation with all its messages.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	conv, err := h.service.GetConversation(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to get conversation")
		return
	}

	responses.OK(c, http.StatusOK, gin.H{"conversation": conv})
}

// AddMessage appends a message and returns it together with the updated
// conversation.
func (h *ChatHandler) AddMessage(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	var req chatrequests.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.FailValidation(c, "Validation failed", requests.FieldErrors(err))
		return
	}

	conv, msg, err := h.service.AddMessage(c.Request.Context(), principal.UserID, c.Param("id"), req.Content, req.Role, req.Metadata.ToMap())
	if err != nil {
		responses.HandleError(c, err, "Failed to add message")
		return
	}

	responses.OKMessage(c, http.StatusCreated, "Message added", gin.H{
		"conversation": conv,
		"message":      msg,
	})
}

// UpdateConversation applies a partial update.
func (h *ChatHandler) UpdateConversation(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	var req chatrequests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.FailValidation(c, "Validation failed", requests.FieldErrors(err))
		return
	}

	conv, err := h.service.UpdateConversation(c.Request.Context(), principal.UserID, c.Param("id"), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "Failed to update conversation")
		return
	}

	responses.OKMessage(c, http.StatusOK, "Conversation updated", gin.H{"conversation": conv})
}

// DeleteConversation soft deletes a conversation.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	if err := h.service.DeleteConversation(c.Request.Context(), principal.UserID, c.Param("id")); err != nil {
		responses.HandleError(c, err, "Failed to delete conversation")
		return
	}

	responses.OKMessage(c, http.StatusOK, "Conversation deleted", nil)
}

// GetMessages returns one page of a conversation's messages. Page 1 holds
// the most recent messages in chronological order.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "Invalid pagination")
		return
	}

	page, err := h.service.ListMessages(c.Request.Context(), principal.UserID, c.Param("id"), pagination.Page, pagination.Limit)
	if err != nil {
		responses.HandleError(c, err, "Failed to list messages")
		return
	}

	responses.OK(c, http.StatusOK, gin.H{
		"messages":   page.Messages,
		"pagination": newPaginationMeta(pagination.Page, pagination.Limit, int64(page.Total)),
	})
}

package httphandler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	messageapp "github.com/couriermsg/courier/internal/application/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
	"github.com/couriermsg/courier/internal/infrastructure/httpserver"
	"github.com/couriermsg/courier/internal/infrastructure/metrics"
	"github.com/couriermsg/courier/internal/middleware"
)

// CreateMessageRequest represents the request to post a message.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// Service interfaces for message operations.
// Declared on the consumer side per project guidelines.
type (
	// CreateMessageService posts a message to a thread.
	CreateMessageService interface {
		Execute(ctx context.Context, cmd messageapp.CreateMessageCommand) (*messageapp.Message, error)
	}

	// ReadMessageService marks a received message as read.
	ReadMessageService interface {
		Execute(ctx context.Context, cmd messageapp.ReadMessageCommand) (*messageapp.Message, error)
	}

	// ListMessagesService lists messages with filtering and pagination.
	ListMessagesService interface {
		Execute(ctx context.Context, query messageapp.ListMessagesQuery) (messageapp.ListMessagesResult, error)
	}
)

// MessageHandler handles message-related HTTP requests.
type MessageHandler struct {
	create  CreateMessageService
	read    ReadMessageService
	list    ListMessagesService
	metrics *metrics.ChatMetrics
}

// NewMessageHandler creates a new MessageHandler. Metrics may be nil.
func NewMessageHandler(
	create CreateMessageService,
	read ReadMessageService,
	list ListMessagesService,
	chatMetrics *metrics.ChatMetrics,
) *MessageHandler {
	return &MessageHandler{
		create:  create,
		read:    read,
		list:    list,
		metrics: chatMetrics,
	}
}

// RegisterRoutes registers message routes with the router.
func (h *MessageHandler) RegisterRoutes(r *httpserver.Router) {
	r.Auth().POST("/threads/:thread_id/messages", h.Create)
	r.Auth().GET("/threads/:thread_id/messages", h.List)
	r.Auth().POST("/messages/:message_id/read", h.Read)
}

// Create handles POST /api/v1/threads/:thread_id/messages.
// New messages start unread; posting also bumps the thread's updated_at.
func (h *MessageHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	threadID, err := uuid.ParseUUID(c.Param("thread_id"))
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_THREAD_ID", "Invalid thread ID format")
	}

	var req CreateMessageRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	}

	msg, err := h.create.Execute(c.Request().Context(), messageapp.CreateMessageCommand{
		CallerID: userID,
		ThreadID: threadID,
		Text:     req.Text,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.MessagesCreated.Inc()
	}

	return httpserver.RespondCreated(c, msg)
}

// Read handles POST /api/v1/messages/:message_id/read.
// Marking is one-way and only the recipient of a still-unread message
// qualifies; repeated reads and reads of own messages answer 404.
func (h *MessageHandler) Read(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	messageID, err := uuid.ParseUUID(c.Param("message_id"))
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_MESSAGE_ID", "Invalid message ID format")
	}

	msg, err := h.read.Execute(c.Request().Context(), messageapp.ReadMessageCommand{
		CallerID:  userID,
		MessageID: messageID,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.MessagesRead.Inc()
	}

	return httpserver.RespondOK(c, msg)
}

// List handles GET /api/v1/threads/:thread_id/messages.
// Query parameters: text (case-insensitive substring), sender_id,
// ordering, page, page_size.
func (h *MessageHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	threadID, err := uuid.ParseUUID(c.Param("thread_id"))
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_THREAD_ID", "Invalid thread ID format")
	}

	var senderID uuid.UUID
	if raw := c.QueryParam("sender_id"); raw != "" {
		senderID, err = uuid.ParseUUID(raw)
		if err != nil {
			return httpserver.RespondErrorWithCode(
				c, http.StatusBadRequest, "INVALID_SENDER_ID", "Invalid sender ID format")
		}
	}

	result, err := h.list.Execute(c.Request().Context(), messageapp.ListMessagesQuery{
		CallerID: userID,
		ThreadID: threadID,
		Text:     c.QueryParam("text"),
		SenderID: senderID,
		Page:     parsePageRequest(c),
		Ordering: messageapp.Ordering(c.QueryParam("ordering")),
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

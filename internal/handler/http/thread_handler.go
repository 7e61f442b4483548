package httphandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/couriermsg/courier/internal/application/shared"
	threadapp "github.com/couriermsg/courier/internal/application/thread"
	"github.com/couriermsg/courier/internal/domain/uuid"
	"github.com/couriermsg/courier/internal/infrastructure/httpserver"
	"github.com/couriermsg/courier/internal/infrastructure/metrics"
	"github.com/couriermsg/courier/internal/middleware"
)

// UpsertThreadRequest represents the request to find or create a thread
// with another user.
type UpsertThreadRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
}

// Service interfaces for thread operations.
// Declared on the consumer side per project guidelines.
type (
	// UpsertThreadService resolves the unique thread for a user pair.
	UpsertThreadService interface {
		Execute(ctx context.Context, cmd threadapp.UpsertThreadCommand) (*threadapp.Thread, error)
	}

	// DeleteThreadService destroys a thread and its messages.
	DeleteThreadService interface {
		Execute(ctx context.Context, cmd threadapp.DeleteThreadCommand) error
	}

	// ListThreadsService lists threads with filtering and pagination.
	ListThreadsService interface {
		Execute(ctx context.Context, query threadapp.ListThreadsQuery) (threadapp.ListThreadsResult, error)
	}
)

// ThreadHandler handles thread-related HTTP requests.
type ThreadHandler struct {
	upsert  UpsertThreadService
	delete  DeleteThreadService
	list    ListThreadsService
	metrics *metrics.ChatMetrics
}

// NewThreadHandler creates a new ThreadHandler. Metrics may be nil.
func NewThreadHandler(
	upsert UpsertThreadService,
	del DeleteThreadService,
	list ListThreadsService,
	chatMetrics *metrics.ChatMetrics,
) *ThreadHandler {
	return &ThreadHandler{
		upsert:  upsert,
		delete:  del,
		list:    list,
		metrics: chatMetrics,
	}
}

// RegisterRoutes registers thread routes with the router.
func (h *ThreadHandler) RegisterRoutes(r *httpserver.Router) {
	r.Auth().POST("/threads", h.Upsert)
	r.Auth().GET("/threads", h.List)
	r.Auth().DELETE("/threads/:thread_id", h.Delete)
}

// Upsert handles POST /api/v1/threads.
// Returns the existing thread for the caller/participant pair or creates
// it. Both outcomes respond 200 with the thread body.
func (h *ThreadHandler) Upsert(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	var req UpsertThreadRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	}

	th, err := h.upsert.Execute(c.Request().Context(), threadapp.UpsertThreadCommand{
		CallerID:      userID,
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.ThreadsUpserted.Inc()
	}

	return httpserver.RespondOK(c, th)
}

// Delete handles DELETE /api/v1/threads/:thread_id.
// Destroys the thread and all its messages for both participants.
func (h *ThreadHandler) Delete(c echo.Context) error {
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

	if err = h.delete.Execute(c.Request().Context(), threadapp.DeleteThreadCommand{
		CallerID: userID,
		ThreadID: threadID,
	}); err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.ThreadsDeleted.Inc()
	}

	return httpserver.RespondNoContent(c)
}

// List handles GET /api/v1/threads.
// Query parameters: participant_ids (comma-separated), ordering, page,
// page_size. The response carries the caller's aggregate unread count
// alongside the page.
func (h *ThreadHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	participantIDs, err := parseParticipantIDs(c.QueryParam("participant_ids"))
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_PARTICIPANT_IDS", "Invalid participant ID format")
	}

	result, err := h.list.Execute(c.Request().Context(), threadapp.ListThreadsQuery{
		CallerID:       userID,
		ParticipantIDs: participantIDs,
		Page:           parsePageRequest(c),
		Ordering:       threadapp.Ordering(c.QueryParam("ordering")),
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

// parseParticipantIDs splits a comma-separated ID list. Empty input and
// stray commas yield no filter.
func parseParticipantIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.ParseUUID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parsePageRequest reads page and page_size query parameters. Absent
// values fall back to defaults; malformed values are passed through as-is
// so the application layer reports them as validation failures.
func parsePageRequest(c echo.Context) shared.PageRequest {
	page := shared.DefaultPage
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		} else {
			page = -1
		}
	}

	pageSize := shared.DefaultPageSize
	if raw := c.QueryParam("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		} else {
			pageSize = -1
		}
	}

	return shared.PageRequest{Page: page, PageSize: pageSize}
}

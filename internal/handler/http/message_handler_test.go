package httphandler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messageapp "github.com/couriermsg/courier/internal/application/message"
	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
	httphandler "github.com/couriermsg/courier/internal/handler/http"
)

type stubCreateMessageService struct {
	message *messageapp.Message
	err     error
	got     messageapp.CreateMessageCommand
}

func (s *stubCreateMessageService) Execute(_ context.Context, cmd messageapp.CreateMessageCommand) (*messageapp.Message, error) {
	s.got = cmd
	return s.message, s.err
}

type stubReadMessageService struct {
	message *messageapp.Message
	err     error
	got     messageapp.ReadMessageCommand
}

func (s *stubReadMessageService) Execute(_ context.Context, cmd messageapp.ReadMessageCommand) (*messageapp.Message, error) {
	s.got = cmd
	return s.message, s.err
}

type stubListMessagesService struct {
	result messageapp.ListMessagesResult
	err    error
	got    messageapp.ListMessagesQuery
}

func (s *stubListMessagesService) Execute(_ context.Context, query messageapp.ListMessagesQuery) (messageapp.ListMessagesResult, error) {
	s.got = query
	return s.result, s.err
}

func newMessageHandler(
	create *stubCreateMessageService,
	read *stubReadMessageService,
	list *stubListMessagesService,
) *httphandler.MessageHandler {
	if create == nil {
		create = &stubCreateMessageService{}
	}
	if read == nil {
		read = &stubReadMessageService{}
	}
	if list == nil {
		list = &stubListMessagesService{}
	}
	return httphandler.NewMessageHandler(create, read, list, nil)
}

func sampleMessage(threadID, senderID uuid.UUID, text string) *messageapp.Message {
	return &messageapp.Message{
		ID:             uuid.NewUUID(),
		ThreadID:       threadID,
		SenderID:       senderID,
		SenderUsername: "alice",
		Text:           text,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestMessageHandler_Create(t *testing.T) {
	callerID := uuid.NewUUID()
	threadID := uuid.NewUUID()
	create := &stubCreateMessageService{message: sampleMessage(threadID, callerID, "hello there")}
	h := newMessageHandler(create, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/threads/"+threadID.String()+"/messages",
		`{"text":"hello there"}`, callerID)
	c.SetParamNames("thread_id")
	c.SetParamValues(threadID.String())

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello there")
	assert.Contains(t, rec.Body.String(), `"is_read":false`)
	assert.Equal(t, callerID, create.got.CallerID)
	assert.Equal(t, threadID, create.got.ThreadID)
	assert.Equal(t, "hello there", create.got.Text)
}

func TestMessageHandler_Create_OutsiderThread(t *testing.T) {
	h := newMessageHandler(&stubCreateMessageService{err: errs.ErrNotFound}, nil, nil)

	threadID := uuid.NewUUID()
	c, rec := newJSONContext(http.MethodPost, "/threads/"+threadID.String()+"/messages",
		`{"text":"hi"}`, uuid.NewUUID())
	c.SetParamNames("thread_id")
	c.SetParamValues(threadID.String())

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageHandler_Create_InvalidThreadID(t *testing.T) {
	h := newMessageHandler(nil, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/threads/xyz/messages", `{"text":"hi"}`, uuid.NewUUID())
	c.SetParamNames("thread_id")
	c.SetParamValues("xyz")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_THREAD_ID")
}

func TestMessageHandler_Read(t *testing.T) {
	callerID := uuid.NewUUID()
	msg := sampleMessage(uuid.NewUUID(), uuid.NewUUID(), "ping")
	msg.IsRead = true
	read := &stubReadMessageService{message: msg}
	h := newMessageHandler(nil, read, nil)

	c, rec := newJSONContext(http.MethodPost, "/messages/"+msg.ID.String()+"/read", "", callerID)
	c.SetParamNames("message_id")
	c.SetParamValues(msg.ID.String())

	require.NoError(t, h.Read(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_read":true`)
	assert.Equal(t, callerID, read.got.CallerID)
	assert.Equal(t, msg.ID, read.got.MessageID)
}

func TestMessageHandler_Read_MissingMessage(t *testing.T) {
	h := newMessageHandler(nil, &stubReadMessageService{err: errs.ErrNotFound}, nil)

	messageID := uuid.NewUUID()
	c, rec := newJSONContext(http.MethodPost, "/messages/"+messageID.String()+"/read", "", uuid.NewUUID())
	c.SetParamNames("message_id")
	c.SetParamValues(messageID.String())

	require.NoError(t, h.Read(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageHandler_List(t *testing.T) {
	callerID := uuid.NewUUID()
	threadID := uuid.NewUUID()
	list := &stubListMessagesService{
		result: messageapp.ListMessagesResult{
			Results: []messageapp.Message{*sampleMessage(threadID, callerID, "hello")},
			Count:   1,
		},
	}
	h := newMessageHandler(nil, nil, list)

	c, rec := getContext("/threads/"+threadID.String()+"/messages", callerID)
	c.SetParamNames("thread_id")
	c.SetParamValues(threadID.String())

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Equal(t, threadID, list.got.ThreadID)
}

func TestMessageHandler_List_QueryParams(t *testing.T) {
	list := &stubListMessagesService{}
	h := newMessageHandler(nil, nil, list)

	threadID := uuid.NewUUID()
	senderID := uuid.NewUUID()
	target := "/threads/" + threadID.String() + "/messages?text=hello&sender_id=" +
		senderID.String() + "&ordering=created_at&page=3&page_size=20"
	c, rec := getContext(target, uuid.NewUUID())
	c.SetParamNames("thread_id")
	c.SetParamValues(threadID.String())

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", list.got.Text)
	assert.Equal(t, senderID, list.got.SenderID)
	assert.Equal(t, messageapp.OrderingCreatedAtAsc, list.got.Ordering)
	assert.Equal(t, 3, list.got.Page.Page)
	assert.Equal(t, 20, list.got.Page.PageSize)
}

func TestMessageHandler_List_InvalidSenderID(t *testing.T) {
	h := newMessageHandler(nil, nil, nil)

	threadID := uuid.NewUUID()
	c, rec := getContext("/threads/"+threadID.String()+"/messages?sender_id=garbage", uuid.NewUUID())
	c.SetParamNames("thread_id")
	c.SetParamValues(threadID.String())

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_SENDER_ID")
}

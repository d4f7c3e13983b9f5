package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/handlers"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// MockConversationService is a mock implementation of conversation.Service.
type MockConversationService struct {
	CreateFunc          func(ctx context.Context, params conversation.CreateParams) (*conversation.Conversation, error)
	ListFunc            func(ctx context.Context, userID string) ([]*conversation.Conversation, error)
	GetOwnedFunc        func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error)
	GetWithMessagesFunc func(ctx context.Context, publicID, userID string) (*conversation.Conversation, []conversation.Message, error)
	ListMessagesFunc    func(ctx context.Context, publicID, userID string) ([]conversation.Message, error)
	AppendMessageFunc   func(ctx context.Context, params conversation.AppendMessageParams) (*conversation.Message, error)
	RecordTurnFunc      func(ctx context.Context, conv *conversation.Conversation, record conversation.TurnRecord) error
	UpdateFunc          func(ctx context.Context, publicID, userID string, fields conversation.UpdateFields) (*conversation.Conversation, error)
	StatsFunc           func(ctx context.Context, userID string) (*conversation.Stats, error)
}

func (m *MockConversationService) Create(ctx context.Context, params conversation.CreateParams) (*conversation.Conversation, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockConversationService) List(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockConversationService) GetOwned(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
	if m.GetOwnedFunc != nil {
		return m.GetOwnedFunc(ctx, publicID, userID)
	}
	return nil, nil
}

func (m *MockConversationService) GetWithMessages(ctx context.Context, publicID, userID string) (*conversation.Conversation, []conversation.Message, error) {
	if m.GetWithMessagesFunc != nil {
		return m.GetWithMessagesFunc(ctx, publicID, userID)
	}
	return nil, nil, nil
}

func (m *MockConversationService) ListMessages(ctx context.Context, publicID, userID string) ([]conversation.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, publicID, userID)
	}
	return nil, nil
}

func (m *MockConversationService) AppendMessage(ctx context.Context, params conversation.AppendMessageParams) (*conversation.Message, error) {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockConversationService) RecordTurn(ctx context.Context, conv *conversation.Conversation, record conversation.TurnRecord) error {
	if m.RecordTurnFunc != nil {
		return m.RecordTurnFunc(ctx, conv, record)
	}
	return nil
}

func (m *MockConversationService) Update(ctx context.Context, publicID, userID string, fields conversation.UpdateFields) (*conversation.Conversation, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, publicID, userID, fields)
	}
	return nil, nil
}

func (m *MockConversationService) Stats(ctx context.Context, userID string) (*conversation.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return nil, nil
}

func setupConversationTestRouter(handler *handlers.ConversationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1")
	{
		v1.POST("/conversations", handler.Create)
		v1.GET("/conversations", handler.List)
		v1.GET("/conversations/:conversation_id", handler.Get)
		v1.PATCH("/conversations/:conversation_id", handler.Update)
		v1.GET("/conversations/:conversation_id/messages", handler.ListMessages)
		v1.POST("/conversations/:conversation_id/messages", handler.AppendMessage)
	}
	return r
}

func TestConversationHandler_Create(t *testing.T) {
	mockService := &MockConversationService{
		CreateFunc: func(ctx context.Context, params conversation.CreateParams) (*conversation.Conversation, error) {
			if params.UserID != "user-1" {
				t.Errorf("Expected principal user-1, got %q", params.UserID)
			}
			return conversation.NewConversation("conv_abc123", params.UserID, params.Title, params.Description, params.Type), nil
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	body := bytes.NewBufferString(`{"title":"Switching to tech"}`)
	req, _ := http.NewRequest("POST", "/v1/conversations", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["id"] != "conv_abc123" {
		t.Errorf("Expected id 'conv_abc123', got %v", response["id"])
	}
	if response["title"] != "Switching to tech" {
		t.Errorf("Expected title preserved, got %v", response["title"])
	}
}

func TestConversationHandler_Create_MissingTitle(t *testing.T) {
	handler := handlers.NewConversationHandler(&MockConversationService{}, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("POST", "/v1/conversations", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestConversationHandler_Create_NoPrincipal(t *testing.T) {
	handler := handlers.NewConversationHandler(&MockConversationService{}, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	body := bytes.NewBufferString(`{"title":"anonymous"}`)
	req, _ := http.NewRequest("POST", "/v1/conversations", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestConversationHandler_Get_NotFound(t *testing.T) {
	mockService := &MockConversationService{
		GetWithMessagesFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, []conversation.Message, error) {
			return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, "conversation not found: "+publicID, nil, "handler-test-not-found")
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/conversations/conv_missing", nil)
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestConversationHandler_Get_IncludesMessages(t *testing.T) {
	mockService := &MockConversationService{
		GetWithMessagesFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, []conversation.Message, error) {
			conv := conversation.NewConversation(publicID, userID, "t", nil, "")
			return conv, []conversation.Message{
				{PublicID: "msg_1", Role: conversation.RoleUser, Content: "hi"},
				{PublicID: "msg_2", Role: conversation.RoleAssistant, Content: "hello"},
			}, nil
		},
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			t.Error("Expected a single combined lookup, got a separate ownership fetch")
			return conversation.NewConversation(publicID, userID, "t", nil, ""), nil
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/conversations/conv_abc", nil)
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Conversation map[string]interface{}   `json:"conversation"`
		Messages     []map[string]interface{} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(response.Messages))
	}
	if response.Messages[0]["id"] != "msg_1" {
		t.Errorf("Expected first message msg_1, got %v", response.Messages[0]["id"])
	}
}

func TestConversationHandler_AppendMessage(t *testing.T) {
	mockService := &MockConversationService{
		AppendMessageFunc: func(ctx context.Context, params conversation.AppendMessageParams) (*conversation.Message, error) {
			return &conversation.Message{
				PublicID: "msg_new",
				Role:     params.Role,
				Content:  params.Content,
			}, nil
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	body := bytes.NewBufferString(`{"role":"user","content":"note to self"}`)
	req, _ := http.NewRequest("POST", "/v1/conversations/conv_abc/messages", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["id"] != "msg_new" {
		t.Errorf("Expected id 'msg_new', got %v", response["id"])
	}
}

func TestConversationHandler_Update_Status(t *testing.T) {
	var gotFields conversation.UpdateFields
	mockService := &MockConversationService{
		UpdateFunc: func(ctx context.Context, publicID, userID string, fields conversation.UpdateFields) (*conversation.Conversation, error) {
			gotFields = fields
			conv := conversation.NewConversation(publicID, userID, "t", nil, "")
			conv.Status = conversation.StatusArchived
			return conv, nil
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	body := bytes.NewBufferString(`{"status":"archived"}`)
	req, _ := http.NewRequest("PATCH", "/v1/conversations/conv_abc", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotFields.Status == nil || *gotFields.Status != conversation.StatusArchived {
		t.Errorf("Expected archived status passed through, got %v", gotFields.Status)
	}
	if gotFields.Title != nil {
		t.Error("Expected absent title to stay nil")
	}
}

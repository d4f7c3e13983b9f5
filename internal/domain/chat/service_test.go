package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
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

// MockAgentClient is a mock implementation of agent.Client.
type MockAgentClient struct {
	SendTurnFunc   func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error)
	ListAgentsFunc func(ctx context.Context) ([]agent.Agent, error)
}

func (m *MockAgentClient) SendTurn(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
	if m.SendTurnFunc != nil {
		return m.SendTurnFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAgentClient) ListAgents(ctx context.Context) ([]agent.Agent, error) {
	if m.ListAgentsFunc != nil {
		return m.ListAgentsFunc(ctx)
	}
	return nil, nil
}

// MockWebhookService records webhook notifications.
type MockWebhookService struct {
	CompletedCalls int
	FailedCalls    int
}

func (m *MockWebhookService) NotifyTurnCompleted(ctx context.Context, conversationID string, reply *agent.TurnReply) error {
	m.CompletedCalls++
	return nil
}

func (m *MockWebhookService) NotifyTurnFailed(ctx context.Context, conversationID string, errorCode, errorMessage string) error {
	m.FailedCalls++
	return nil
}

func ownedConversation(publicID, userID string) *conversation.Conversation {
	return conversation.NewConversation(publicID, userID, "Career chat", nil, "")
}

func TestSendTurn_Success(t *testing.T) {
	recorded := false
	conversations := &MockConversationService{
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			return ownedConversation(publicID, userID), nil
		},
		RecordTurnFunc: func(ctx context.Context, conv *conversation.Conversation, record conversation.TurnRecord) error {
			recorded = true
			if record.UserContent != "What career suits me?" {
				t.Errorf("Expected user content preserved, got %q", record.UserContent)
			}
			if record.AssistantContent != "Consider data engineering." {
				t.Errorf("Expected assistant content from reply, got %q", record.AssistantContent)
			}
			return nil
		},
	}
	agents := &MockAgentClient{
		SendTurnFunc: func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
			return &agent.TurnReply{Response: "Consider data engineering.", AgentID: "career_coach"}, nil
		},
	}
	webhooks := &MockWebhookService{}

	svc := chat.NewService(conversations, agents, webhooks, zerolog.Nop())
	result, err := svc.SendTurn(context.Background(), chat.TurnParams{
		UserID:         "user-1",
		ConversationID: "conv_abc",
		Message:        "What career suits me?",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Persisted {
		t.Error("Expected persisted result")
	}
	if !recorded {
		t.Error("Expected turn to be recorded")
	}
	if result.ProcessedBy != "career_coach" {
		t.Errorf("Expected processed_by from reply, got %q", result.ProcessedBy)
	}
	if result.Reply.Response != "Consider data engineering." {
		t.Errorf("Unexpected reply %q", result.Reply.Response)
	}
	if webhooks.CompletedCalls != 1 {
		t.Errorf("Expected one completion webhook, got %d", webhooks.CompletedCalls)
	}
}

func TestSendTurn_EmptyMessage(t *testing.T) {
	conversations := &MockConversationService{
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			t.Error("Ownership lookup should not run for an invalid message")
			return nil, nil
		},
	}
	svc := chat.NewService(conversations, &MockAgentClient{}, &MockWebhookService{}, zerolog.Nop())

	_, err := svc.SendTurn(context.Background(), chat.TurnParams{
		UserID:         "user-1",
		ConversationID: "conv_abc",
		Message:        "   ",
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var perr *platformerrors.PlatformError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected platform error, got %T", err)
	}
	if perr.GetErrorType() != platformerrors.ErrorTypeValidation {
		t.Errorf("Expected validation error type, got %v", perr.GetErrorType())
	}
}

func TestSendTurn_ConversationNotOwned(t *testing.T) {
	notFound := platformerrors.NewError(context.Background(), platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound, "conversation not found: conv_abc", nil, "turn-test-not-found")

	conversations := &MockConversationService{
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			return nil, notFound
		},
	}
	agents := &MockAgentClient{
		SendTurnFunc: func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
			t.Error("Backend should not be called when ownership check fails")
			return nil, nil
		},
	}

	svc := chat.NewService(conversations, agents, &MockWebhookService{}, zerolog.Nop())
	_, err := svc.SendTurn(context.Background(), chat.TurnParams{
		UserID:         "intruder",
		ConversationID: "conv_abc",
		Message:        "hello",
	})
	if !errors.Is(err, notFound) {
		t.Fatalf("Expected not-found error to propagate, got %v", err)
	}
}

func TestSendTurn_UpstreamFailureNothingPersisted(t *testing.T) {
	conversations := &MockConversationService{
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			return ownedConversation(publicID, userID), nil
		},
		RecordTurnFunc: func(ctx context.Context, conv *conversation.Conversation, record conversation.TurnRecord) error {
			t.Error("Nothing may be persisted when the backend call fails")
			return nil
		},
	}
	backendErr := &agent.BackendError{StatusCode: 503, Detail: "coordinator overloaded"}
	agents := &MockAgentClient{
		SendTurnFunc: func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
			return nil, backendErr
		},
	}
	webhooks := &MockWebhookService{}

	svc := chat.NewService(conversations, agents, webhooks, zerolog.Nop())
	result, err := svc.SendTurn(context.Background(), chat.TurnParams{
		UserID:         "user-1",
		ConversationID: "conv_abc",
		Message:        "hello",
	})
	if result != nil {
		t.Error("Expected no result on backend failure")
	}

	var got *agent.BackendError
	if !errors.As(err, &got) {
		t.Fatalf("Expected backend error, got %v", err)
	}
	if got.StatusCode != 503 {
		t.Errorf("Expected upstream status preserved, got %d", got.StatusCode)
	}
	if webhooks.FailedCalls != 1 {
		t.Errorf("Expected one failure webhook, got %d", webhooks.FailedCalls)
	}
	if webhooks.CompletedCalls != 0 {
		t.Errorf("Expected no completion webhook, got %d", webhooks.CompletedCalls)
	}
}

func TestSendTurn_PersistFailureStillReturnsReply(t *testing.T) {
	conversations := &MockConversationService{
		GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
			return ownedConversation(publicID, userID), nil
		},
		RecordTurnFunc: func(ctx context.Context, conv *conversation.Conversation, record conversation.TurnRecord) error {
			return errors.New("connection refused")
		},
	}
	agents := &MockAgentClient{
		SendTurnFunc: func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
			return &agent.TurnReply{Response: "Take the internship."}, nil
		},
	}

	svc := chat.NewService(conversations, agents, &MockWebhookService{}, zerolog.Nop())
	result, err := svc.SendTurn(context.Background(), chat.TurnParams{
		UserID:         "user-1",
		ConversationID: "conv_abc",
		Message:        "Should I take it?",
	})
	if err != nil {
		t.Fatalf("Expected reply despite persistence failure, got error %v", err)
	}
	if result.Persisted {
		t.Error("Expected persisted=false after storage failure")
	}
	if result.Reply.Response != "Take the internship." {
		t.Errorf("Expected reply to survive, got %q", result.Reply.Response)
	}
}

func TestSendTurn_ProcessedByFallbacks(t *testing.T) {
	requested := "resume_reviewer"

	tests := []struct {
		name      string
		agentID   *string
		replyFrom string
		expected  string
	}{
		{"reply agent wins", &requested, "career_coach", "career_coach"},
		{"requested agent when reply is anonymous", &requested, "", "resume_reviewer"},
		{"coordinator default", nil, "", chat.DefaultProcessor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conversations := &MockConversationService{
				GetOwnedFunc: func(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
					return ownedConversation(publicID, userID), nil
				},
			}
			agents := &MockAgentClient{
				SendTurnFunc: func(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
					return &agent.TurnReply{Response: "ok", AgentID: tt.replyFrom}, nil
				},
			}

			svc := chat.NewService(conversations, agents, &MockWebhookService{}, zerolog.Nop())
			result, err := svc.SendTurn(context.Background(), chat.TurnParams{
				UserID:         "user-1",
				ConversationID: "conv_abc",
				Message:        "hello",
				AgentID:        tt.agentID,
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.ProcessedBy != tt.expected {
				t.Errorf("Expected processed_by %q, got %q", tt.expected, result.ProcessedBy)
			}
		})
	}
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/utils/backoff"
)

// HTTPService implements webhook notifications via HTTP POST to a single
// configured endpoint. An empty URL disables delivery.
type HTTPService struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
	retries    *backoff.Executor
}

// NewHTTPService creates a new HTTP-based webhook service.
func NewHTTPService(url string, log zerolog.Logger) *HTTPService {
	return &HTTPService{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("component", "webhook").Logger(),
		retries: backoff.NewExecutor(backoff.Policy{
			MaxRetries:   2,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Strategy:     backoff.Exponential,
			JitterFactor: 0.2,
		}),
	}
}

var _ Service = (*HTTPService)(nil)

// NotifyTurnCompleted sends a webhook notification when a turn completes.
func (s *HTTPService) NotifyTurnCompleted(ctx context.Context, conversationID string, reply *agent.TurnReply) error {
	if s.url == "" {
		s.log.Debug().Str("conversation_id", conversationID).Msg("no webhook URL configured, skipping notification")
		return nil
	}

	payload := TurnPayload{
		DeliveryID:     uuid.NewString(),
		Event:          "turn.completed",
		ConversationID: conversationID,
		Reply:          reply,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}

	return s.sendWebhook(ctx, payload)
}

// NotifyTurnFailed sends a webhook notification when the upstream call fails.
func (s *HTTPService) NotifyTurnFailed(ctx context.Context, conversationID string, errorCode string, errorMessage string) error {
	if s.url == "" {
		s.log.Debug().Str("conversation_id", conversationID).Msg("no webhook URL configured, skipping notification")
		return nil
	}

	payload := TurnPayload{
		DeliveryID:     uuid.NewString(),
		Event:          "turn.failed",
		ConversationID: conversationID,
		Error:          &ErrorDetails{Code: errorCode, Message: errorMessage},
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}

	return s.sendWebhook(ctx, payload)
}

func (s *HTTPService) sendWebhook(ctx context.Context, payload TurnPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	return s.retries.Execute(ctx, func(ctx context.Context, attempt int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create webhook request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "pathwise-guidance-api/1.0")
		req.Header.Set("X-Pathwise-Event", payload.Event)
		req.Header.Set("X-Pathwise-Delivery", payload.DeliveryID)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("url", s.url).Int("attempt", attempt).Msg("webhook delivery failed")
			return fmt.Errorf("send webhook: %w", err)
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Debug().Str("url", s.url).Int("status", resp.StatusCode).Str("event", payload.Event).Msg("webhook delivered")
			return nil
		}

		s.log.Warn().Int("status", resp.StatusCode).Str("url", s.url).Int("attempt", attempt).Msg("webhook delivery failed")
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	})
}

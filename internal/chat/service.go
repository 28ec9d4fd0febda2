package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banterhq/banter/internal/apperror"
	"github.com/banterhq/banter/internal/auth"
	"github.com/banterhq/banter/internal/sanitize"
)

// fallbackReply is returned (and persisted) when the model call fails.
// The turn is still recorded so the user's history reflects what they saw.
const fallbackReply = "I'm sorry, I couldn't generate a response."

// historyKeyPrefix is the Redis key prefix for cached first-page history.
const historyKeyPrefix = "chat:history:"

// historyCacheTTL bounds staleness if an invalidation is ever missed.
const historyCacheTTL = 60 * time.Second

// History paging bounds.
const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// ChatService defines the business logic contract for chat operations.
// Handlers call these methods -- they never touch the repository, the
// responder, or Redis directly.
type ChatService interface {
	Send(ctx context.Context, user *auth.User, message string) (*SendResponse, error)
	Log(ctx context.Context, user *auth.User, message, response string) (int64, error)
	History(ctx context.Context, user *auth.User, skip, limit int) (*HistoryResponse, error)
}

// chatService implements ChatService with a MariaDB-backed message store,
// an opaque model responder, and a Redis cache for the hot history page.
type chatService struct {
	repo      MessageRepository
	responder Responder
	redis     *redis.Client
}

// NewChatService creates a new chat service with the given dependencies.
func NewChatService(repo MessageRepository, responder Responder, rdb *redis.Client) ChatService {
	return &chatService{
		repo:      repo,
		responder: responder,
		redis:     rdb,
	}
}

// Send relays a user message to the model and persists the turn. A failed
// model call degrades to a canned apology instead of an error: the exchange
// is stored either way, matching what the user actually saw.
func (s *chatService) Send(ctx context.Context, user *auth.User, message string) (*SendResponse, error) {
	text := sanitize.Text(message)
	if text == "" {
		return nil, apperror.NewValidation("message must not be empty")
	}

	reply, err := s.responder.Reply(ctx, text)
	if err != nil {
		slog.Warn("model call failed, using fallback reply",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		reply = fallbackReply
	}

	m := &Message{
		UserID:   user.ID,
		Message:  text,
		Response: reply,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("saving chat turn: %w", err))
	}

	s.invalidateHistory(ctx, user.ID)

	return &SendResponse{Message: text, Response: reply}, nil
}

// Log stores an externally produced exchange verbatim (minus markup) without
// invoking the model. Used by clients that generate replies elsewhere but
// want them in the user's history.
func (s *chatService) Log(ctx context.Context, user *auth.User, message, response string) (int64, error) {
	text := sanitize.Text(message)
	reply := sanitize.Text(response)
	if text == "" || reply == "" {
		return 0, apperror.NewValidation("message and response must not be empty")
	}

	m := &Message{
		UserID:   user.ID,
		Message:  text,
		Response: reply,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("saving chat log: %w", err))
	}

	s.invalidateHistory(ctx, user.ID)

	return m.ID, nil
}

// History returns a page of the user's conversation turns, newest first.
// The default first page is the overwhelmingly common request (every client
// loads it on open), so that page is served from a short-lived Redis cache
// invalidated on each new turn. Other pages always hit the database.
func (s *chatService) History(ctx context.Context, user *auth.User, skip, limit int) (*HistoryResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	total, err := s.repo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting chat history: %w", err))
	}

	firstPage := skip == 0 && limit == defaultHistoryLimit

	if firstPage {
		if cached := s.cachedHistory(ctx, user.ID); cached != nil {
			return &HistoryResponse{Username: user.Username, Total: total, History: cached}, nil
		}
	}

	messages, err := s.repo.ListByUser(ctx, user.ID, skip, limit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading chat history: %w", err))
	}
	if messages == nil {
		messages = []Message{}
	}

	if firstPage {
		s.storeHistory(ctx, user.ID, messages)
	}

	return &HistoryResponse{Username: user.Username, Total: total, History: messages}, nil
}

// --- History cache ---

// cachedHistory returns the cached first page, or nil on miss or any Redis
// problem. The cache is an optimization: errors degrade to a DB read.
func (s *chatService) cachedHistory(ctx context.Context, userID string) []Message {
	data, err := s.redis.Get(ctx, historyKeyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("reading history cache", slog.Any("error", err))
		}
		return nil
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		slog.Warn("decoding history cache", slog.Any("error", err))
		return nil
	}
	return messages
}

// storeHistory writes the first page to the cache (fire-and-forget).
func (s *chatService) storeHistory(ctx context.Context, userID string, messages []Message) {
	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, historyKeyPrefix+userID, data, historyCacheTTL).Err(); err != nil {
		slog.Warn("writing history cache", slog.Any("error", err))
	}
}

// invalidateHistory drops the cached page after a write.
func (s *chatService) invalidateHistory(ctx context.Context, userID string) {
	if err := s.redis.Del(ctx, historyKeyPrefix+userID).Err(); err != nil {
		slog.Warn("invalidating history cache", slog.Any("error", err))
	}
}

// Package chat proxies user messages to a pretrained language model and
// persists each conversation turn. All routes are user-scoped: the auth
// middleware resolves the caller before any handler here runs.
package chat

import "time"

// Message represents one stored conversation turn: the user's message and
// the model's response.
type Message struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"timestamp"`
}

// --- Request DTOs (bound from HTTP requests) ---

// SendRequest holds an inbound chat message.
type SendRequest struct {
	Message string `json:"message"`
}

// LogRequest holds an externally produced exchange to record verbatim,
// without invoking the model.
type LogRequest struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// --- Response DTOs ---

// SendResponse echoes the (sanitized) message together with the model reply.
type SendResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// LoggedResponse confirms a stored exchange.
type LoggedResponse struct {
	Message string `json:"message"`
	ChatID  int64  `json:"chat_id"`
}

// HistoryResponse is a page of the caller's conversation history,
// newest first. Total is the full count of stored turns so clients can
// render pagination controls.
type HistoryResponse struct {
	Username string    `json:"username"`
	Total    int       `json:"total"`
	History  []Message `json:"history"`
}

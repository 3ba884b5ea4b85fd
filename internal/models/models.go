package models

import "time"

// Origin identifies who authored a chat message
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// ChatMessage represents a single entry of a chat conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"timestamp"`
}

// IsBot reports whether the message was produced by the assistant
func (m ChatMessage) IsBot() bool {
	return m.Origin == OriginAssistant
}

// RecordKind tags an independently stored sequence in the key-value store
type RecordKind string

const (
	KindReports RecordKind = "reports"
	KindChat    RecordKind = "chat"
)

// Key returns the key-value store key the kind is persisted under
func (k RecordKind) Key() string {
	switch k {
	case KindReports:
		return KeyReports
	case KindChat:
		return KeyChatHistory
	default:
		return string(k)
	}
}

// Named keys of the key-value store
const (
	KeyToken       = "userToken"
	KeyRole        = "userRole"
	KeyName        = "userName"
	KeyEmail       = "userEmail"
	KeyReports     = "userReports"
	KeyChatHistory = "chatHistory"
)

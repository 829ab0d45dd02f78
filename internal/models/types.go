package models

import (
	"time"
)

// MessageKind classifies who (or what) produced a chat message.
type MessageKind string

const (
	KindUser      MessageKind = "user"
	KindAssistant MessageKind = "assistant"
	KindError     MessageKind = "error"
)

// ChatMessage is a single entry in the conversation. Once appended to a
// conversation it is never mutated; IDs are strictly increasing per store.
type ChatMessage struct {
	ID        int64       `json:"id"`
	Text      string      `json:"text"`
	Kind      MessageKind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
	Source    string      `json:"source,omitempty"`
}

// AnswerPayload is the normalized answer shape every delivery tier and every
// locally synthesized fallback must produce.
type AnswerPayload struct {
	Text        string `json:"text"`
	Source      string `json:"source,omitempty"`
	ElapsedHint string `json:"elapsed_hint,omitempty"`
}

// ConversationState is the visible state of one conversation session.
type ConversationState struct {
	Messages    []ChatMessage
	IsSending   bool
	LastError   string
	IsPanelOpen bool
}

// UserProfile is the locally stored profile of a logged-in shopper.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome,omitempty"`
	Email string `json:"email,omitempty"`
}

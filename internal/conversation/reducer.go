package conversation

import (
	"github.com/mercafeira/assistant-go/internal/models"
)

// actionKind enumerates the closed set of state transitions. Every mutation
// of conversation state goes through apply with one of these.
type actionKind int

const (
	actionAddMessage actionKind = iota
	actionSetSending
	actionSetError
	actionClear
	actionSetOpen
	actionToggleOpen
)

type action struct {
	kind    actionKind
	message models.ChatMessage
	sending bool
	errText string
	open    bool
}

func addMessage(msg models.ChatMessage) action {
	return action{kind: actionAddMessage, message: msg}
}

func setSending(sending bool) action {
	return action{kind: actionSetSending, sending: sending}
}

func setError(text string) action {
	return action{kind: actionSetError, errText: text}
}

func clearAll() action {
	return action{kind: actionClear}
}

func setOpen(open bool) action {
	return action{kind: actionSetOpen, open: open}
}

func toggleOpen() action {
	return action{kind: actionToggleOpen}
}

// apply is the pure transition function. It never mutates its input:
// messages are append-only, so the slice is copied on growth and dropped
// wholesale on clear.
func apply(state models.ConversationState, a action) models.ConversationState {
	switch a.kind {
	case actionAddMessage:
		messages := make([]models.ChatMessage, len(state.Messages), len(state.Messages)+1)
		copy(messages, state.Messages)
		state.Messages = append(messages, a.message)
	case actionSetSending:
		state.IsSending = a.sending
	case actionSetError:
		state.LastError = a.errText
	case actionClear:
		state.Messages = nil
		state.LastError = ""
	case actionSetOpen:
		state.IsPanelOpen = a.open
	case actionToggleOpen:
		state.IsPanelOpen = !state.IsPanelOpen
	}
	return state
}

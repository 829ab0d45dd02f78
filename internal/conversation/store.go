// Package conversation holds the single-writer state machine behind the
// assistant panel: the ordered message list, the sending flag, the last
// error, and the panel-open flag. The presentation layer talks only to this
// package.
package conversation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mercafeira/assistant-go/internal/classify"
	"github.com/mercafeira/assistant-go/internal/dispatch"
	"github.com/mercafeira/assistant-go/internal/i18n"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/mercafeira/assistant-go/internal/validator"
	"github.com/sirupsen/logrus"
)

// Dispatcher resolves a question to an answer payload without ever failing.
type Dispatcher interface {
	Send(ctx context.Context, text string, opts dispatch.Options) models.AnswerPayload
}

// ProfileProvider reads the locally stored shopper profile, when one exists.
type ProfileProvider interface {
	Profile() (models.UserProfile, bool)
}

// SnapshotWriter persists a best-effort copy of the conversation. Errors are
// logged and ignored.
type SnapshotWriter interface {
	Save(ctx context.Context, conversationID string, messages []models.ChatMessage) error
}

// Store is the conversation state machine. All mutations funnel through one
// reducer under one mutex; SendMessage is additionally serialized so replies
// always land adjacent to the question they answer.
type Store struct {
	id         string
	dispatcher Dispatcher
	profiles   ProfileProvider
	snapshots  SnapshotWriter
	localizer  *i18n.Localizer
	lang       string
	logger     *logrus.Logger

	mu     sync.RWMutex
	state  models.ConversationState
	lastID atomic.Int64

	sendMu sync.Mutex
}

// NewStore creates a conversation store. profiles and snapshots may be nil:
// no profile means every send is anonymous, no snapshot writer disables
// persistence.
func NewStore(
	id string,
	dispatcher Dispatcher,
	profiles ProfileProvider,
	snapshots SnapshotWriter,
	localizer *i18n.Localizer,
	lang string,
	logger *logrus.Logger,
) *Store {
	return &Store{
		id:         id,
		dispatcher: dispatcher,
		profiles:   profiles,
		snapshots:  snapshots,
		localizer:  localizer,
		lang:       lang,
		logger:     logger,
	}
}

// SendMessage runs the full pipeline for one user question and returns the
// reply message that was appended (assistant, classified error, or
// validation complaint). Every call appends at least one message: a question
// is never silently dropped.
func (s *Store) SendMessage(ctx context.Context, raw string) models.ChatMessage {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	clean, err := validator.ValidateOutbound(raw)
	if err != nil {
		text := s.validationText(err)
		msg := s.append(models.KindError, text, string(classify.KindValidation))
		s.dispatchAction(setError(text))
		s.logger.WithError(err).WithField("conversation_id", s.id).Info("Message rejected by validation")
		return msg
	}

	s.append(models.KindUser, clean, "")
	s.dispatchAction(setSending(true))
	s.dispatchAction(setError(""))

	// Sending must drop even if the dispatcher panics upstream.
	defer s.dispatchAction(setSending(false))

	opts := dispatch.Options{}
	if s.profiles != nil {
		if profile, ok := s.profiles.Profile(); ok {
			opts.UseAuth = true
			opts.UserID = profile.ID
		}
	}

	payload := s.dispatcher.Send(ctx, clean, opts)

	if classify.IsErrorSource(payload.Source) {
		msg := s.append(models.KindError, payload.Text, payload.Source)
		s.dispatchAction(setError(payload.Text))
		return msg
	}

	return s.append(models.KindAssistant, validator.SanitizeInbound(payload.Text), payload.Source)
}

// Clear empties the message list and the last error in one step.
func (s *Store) Clear() {
	s.dispatchAction(clearAll())
}

// ToggleOpen flips the panel-open flag.
func (s *Store) ToggleOpen() {
	s.dispatchAction(toggleOpen())
}

// SetOpen sets the panel-open flag directly.
func (s *Store) SetOpen(open bool) {
	s.dispatchAction(setOpen(open))
}

// State returns a copy of the current conversation state.
func (s *Store) State() models.ConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	state.Messages = make([]models.ChatMessage, len(s.state.Messages))
	copy(state.Messages, s.state.Messages)
	return state
}

func (s *Store) append(kind models.MessageKind, text, source string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        s.nextID(),
		Text:      text,
		Kind:      kind,
		CreatedAt: time.Now(),
		Source:    source,
	}
	s.dispatchAction(addMessage(msg))
	return msg
}

func (s *Store) dispatchAction(a action) {
	s.mu.Lock()
	s.state = apply(s.state, a)
	messages := s.state.Messages
	s.mu.Unlock()

	s.writeSnapshot(messages)
}

// writeSnapshot is best effort: a failed write is logged and forgotten.
func (s *Store) writeSnapshot(messages []models.ChatMessage) {
	if s.snapshots == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.snapshots.Save(ctx, s.id, messages); err != nil {
		s.logger.WithError(err).WithField("conversation_id", s.id).Warn("Failed to write snapshot")
	}
}

// nextID produces strictly increasing message IDs even when two messages
// land in the same nanosecond.
func (s *Store) nextID() int64 {
	for {
		last := s.lastID.Load()
		id := time.Now().UnixNano()
		if id <= last {
			id = last + 1
		}
		if s.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

func (s *Store) validationText(err error) string {
	switch err {
	case validator.ErrEmptyMessage:
		return s.localizer.Get(s.lang, i18n.MsgErrEmptyMessage, nil)
	case validator.ErrMessageTooLong:
		return s.localizer.Get(s.lang, i18n.MsgErrMessageTooLong, map[string]interface{}{
			"Max": validator.MaxMessageLength,
		})
	default:
		return s.localizer.Get(s.lang, i18n.MsgErrValidation, nil)
	}
}

package classify

import (
	"fmt"

	"github.com/mercafeira/assistant-go/internal/i18n"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Kind names the failure classification carried in a fallback payload's
// Source tag.
type Kind string

const (
	KindNetwork     Kind = "network"
	KindAuth        Kind = "auth"
	KindServer      Kind = "server"
	KindValidation  Kind = "validation"
	KindGeneric     Kind = "generic"
	KindRateLimited Kind = "rate_limit"
)

var errorKinds = map[string]struct{}{
	string(KindNetwork):     {},
	string(KindAuth):        {},
	string(KindServer):      {},
	string(KindValidation):  {},
	string(KindGeneric):     {},
	string(KindRateLimited): {},
}

// IsErrorSource reports whether a payload source tag names a failure
// classification rather than a live answer origin.
func IsErrorSource(source string) bool {
	_, ok := errorKinds[source]
	return ok
}

// TransportError carries what a delivery tier knows about its failure.
// StatusCode is zero when no response was received at all.
type TransportError struct {
	StatusCode int
	Question   string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("no response received: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Classifier turns transport failures into locally synthesized answer
// payloads. It never fails: every input maps to some payload, so the caller
// can always materialize an error message.
type Classifier struct {
	localizer *i18n.Localizer
	lang      string
	logger    *logrus.Logger
}

// NewClassifier creates a classifier answering in the given language.
func NewClassifier(localizer *i18n.Localizer, lang string, logger *logrus.Logger) *Classifier {
	return &Classifier{
		localizer: localizer,
		lang:      lang,
		logger:    logger,
	}
}

// Classify maps a transport failure to a fallback payload. First match wins:
// no response, then 401, then 5xx, then 400, then everything else.
func (c *Classifier) Classify(terr *TransportError) models.AnswerPayload {
	if terr == nil {
		return c.Unavailable("")
	}

	kind := classifyKind(terr)
	c.logger.WithFields(logrus.Fields{
		"status": terr.StatusCode,
		"kind":   kind,
	}).Debug("Classified transport failure")

	return models.AnswerPayload{
		Text:   c.localizer.Get(c.lang, messageIDForKind(kind), nil),
		Source: string(kind),
	}
}

// Unavailable synthesizes the generic payload used when no structured error
// is available, echoing the original question back to the user.
func (c *Classifier) Unavailable(question string) models.AnswerPayload {
	text := c.localizer.Get(c.lang, i18n.MsgErrGeneric, nil)
	if question != "" {
		text = c.localizer.Get(c.lang, i18n.MsgUnavailableEcho, map[string]interface{}{
			"Question": question,
		})
	}
	return models.AnswerPayload{
		Text:   text,
		Source: string(KindGeneric),
	}
}

// RateLimited synthesizes the payload returned when a send is throttled
// before reaching any tier.
func (c *Classifier) RateLimited() models.AnswerPayload {
	return models.AnswerPayload{
		Text:   c.localizer.Get(c.lang, i18n.MsgErrRateLimited, nil),
		Source: string(KindRateLimited),
	}
}

func classifyKind(terr *TransportError) Kind {
	switch {
	case terr.StatusCode == 0:
		return KindNetwork
	case terr.StatusCode == 401:
		return KindAuth
	case terr.StatusCode >= 500 && terr.StatusCode <= 599:
		return KindServer
	case terr.StatusCode == 400:
		return KindValidation
	default:
		return KindGeneric
	}
}

func messageIDForKind(kind Kind) string {
	switch kind {
	case KindNetwork:
		return i18n.MsgErrNetwork
	case KindAuth:
		return i18n.MsgErrAuth
	case KindServer:
		return i18n.MsgErrServer
	case KindValidation:
		return i18n.MsgErrValidation
	default:
		return i18n.MsgErrGeneric
	}
}

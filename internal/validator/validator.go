package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxMessageLength is the longest outbound question accepted, in runes.
const MaxMessageLength = 1000

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLength)
)

// tagPattern matches any <...> markup in outbound text. A sanitizer library
// is deliberately not used here: the outbound path must return the user's own
// words unchanged apart from tag removal, and sanitizers entity-escape plain
// text like "a < b".
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// inboundPolicy keeps benign formatting markup from remote answers but drops
// script elements together with their contents.
var inboundPolicy = bluemonday.UGCPolicy()

// ValidateOutbound normalizes a user question before it may reach any
// delivery tier. It fails on empty or over-long input and strips markup tags
// from everything else.
func ValidateOutbound(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return strings.TrimSpace(tagPattern.ReplaceAllString(trimmed, "")), nil
}

// SanitizeInbound removes script blocks from text received from a remote
// tier before it is wrapped into a chat message.
func SanitizeInbound(text string) string {
	return inboundPolicy.Sanitize(text)
}

// NormalizeKey folds a question into the canonical form used as a response
// cache key: lowercased, with runs of whitespace collapsed.
func NormalizeKey(question string) string {
	return strings.ToLower(strings.Join(strings.Fields(question), " "))
}

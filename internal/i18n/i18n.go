package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer manages internationalization
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// NewLocalizer creates a new localizer. The built-in messages cover every
// message ID; files under cfg.Dir, when set, override them.
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.BrazilianPortuguese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if err := bundle.AddMessages(language.BrazilianPortuguese, portugueseMessages...); err != nil {
		return nil, fmt.Errorf("failed to register pt-BR messages: %w", err)
	}
	if err := bundle.AddMessages(language.English, englishMessages...); err != nil {
		return nil, fmt.Errorf("failed to register en messages: %w", err)
	}

	if cfg.Dir != "" {
		for _, lang := range cfg.Languages {
			path := filepath.Join(cfg.Dir, fmt.Sprintf("%s.json", lang))
			if _, err := bundle.LoadMessageFile(path); err != nil {
				return nil, fmt.Errorf("failed to load language file %s: %w", lang, err)
			}
		}
	}

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{cfg.DefaultLanguage}
	}

	localizers := make(map[string]*i18n.Localizer)
	for _, lang := range langs {
		localizers[lang] = i18n.NewLocalizer(bundle, lang)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}
	if localizer == nil {
		return messageID
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// Message IDs
const (
	MsgErrNetwork        = "error_network"
	MsgErrAuth           = "error_auth"
	MsgErrServer         = "error_server"
	MsgErrValidation     = "error_validation"
	MsgErrGeneric        = "error_generic"
	MsgErrRateLimited    = "error_rate_limited"
	MsgErrEmptyMessage   = "error_empty_message"
	MsgErrMessageTooLong = "error_message_too_long"
	MsgUnavailableEcho   = "unavailable_echo"
	MsgWelcome           = "welcome"
	MsgGoodbye           = "goodbye"
	MsgCleared           = "cleared"
)

var portugueseMessages = []*i18n.Message{
	{ID: MsgErrNetwork, Other: "Parece que estamos com um problema de conexão. Verifique sua internet e tente novamente."},
	{ID: MsgErrAuth, Other: "Sua sessão expirou. Faça login novamente para continuar."},
	{ID: MsgErrServer, Other: "O servidor está temporariamente indisponível. Tente novamente em alguns instantes."},
	{ID: MsgErrValidation, Other: "Não consegui entender sua pergunta. Pode reformular?"},
	{ID: MsgErrGeneric, Other: "Não consegui processar sua pergunta. Pode reformular?"},
	{ID: MsgErrRateLimited, Other: "Você está enviando perguntas muito rápido. Aguarde um pouco e tente novamente."},
	{ID: MsgErrEmptyMessage, Other: "Digite uma mensagem antes de enviar."},
	{ID: MsgErrMessageTooLong, Other: "A mensagem é muito longa. Use no máximo {{.Max}} caracteres."},
	{ID: MsgUnavailableEcho, Other: "O assistente está temporariamente indisponível. Sua pergunta foi: {{.Question}}"},
	{ID: MsgWelcome, Other: "Assistente de compras pronto. Digite sua pergunta."},
	{ID: MsgGoodbye, Other: "Até logo!"},
	{ID: MsgCleared, Other: "Conversa apagada."},
}

var englishMessages = []*i18n.Message{
	{ID: MsgErrNetwork, Other: "Looks like there is a connection problem. Check your network and try again."},
	{ID: MsgErrAuth, Other: "Your session has expired. Please log in again to continue."},
	{ID: MsgErrServer, Other: "The server is temporarily unavailable. Please try again in a moment."},
	{ID: MsgErrValidation, Other: "I could not understand your question. Could you rephrase it?"},
	{ID: MsgErrGeneric, Other: "I could not process your question. Could you rephrase it?"},
	{ID: MsgErrRateLimited, Other: "You are sending questions too fast. Wait a moment and try again."},
	{ID: MsgErrEmptyMessage, Other: "Type a message before sending."},
	{ID: MsgErrMessageTooLong, Other: "The message is too long. Use at most {{.Max}} characters."},
	{ID: MsgUnavailableEcho, Other: "The assistant is temporarily unavailable. Your question was: {{.Question}}"},
	{ID: MsgWelcome, Other: "Shopping assistant ready. Type your question."},
	{ID: MsgGoodbye, Other: "See you!"},
	{ID: MsgCleared, Other: "Conversation cleared."},
}

package i18n

import (
	"testing"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalizer(t *testing.T) *Localizer {
	t.Helper()

	l, err := NewLocalizer(&config.I18nConfig{
		DefaultLanguage: "pt-BR",
		Languages:       []string{"pt-BR", "en"},
	})
	require.NoError(t, err)
	return l
}

func TestGetReturnsLocalizedMessage(t *testing.T) {
	l := newTestLocalizer(t)

	pt := l.Get("pt-BR", MsgErrNetwork, nil)
	en := l.Get("en", MsgErrNetwork, nil)

	assert.NotEqual(t, MsgErrNetwork, pt)
	assert.NotEqual(t, MsgErrNetwork, en)
	assert.NotEqual(t, pt, en)
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	l := newTestLocalizer(t)
	assert.Equal(t, l.Get("pt-BR", MsgErrServer, nil), l.Get("xx", MsgErrServer, nil))
}

func TestUnknownMessageIDFallsBackToID(t *testing.T) {
	l := newTestLocalizer(t)
	assert.Equal(t, "does_not_exist", l.Get("pt-BR", "does_not_exist", nil))
}

func TestTemplateData(t *testing.T) {
	l := newTestLocalizer(t)
	got := l.Get("pt-BR", MsgErrMessageTooLong, map[string]interface{}{"Max": 1000})
	assert.Contains(t, got, "1000")
}

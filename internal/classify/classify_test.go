package classify

import (
	"errors"
	"io"
	"testing"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/i18n"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()

	localizer, err := i18n.NewLocalizer(&config.I18nConfig{
		DefaultLanguage: "pt-BR",
		Languages:       []string{"pt-BR", "en"},
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewClassifier(localizer, "pt-BR", log)
}

func TestClassifyTable(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		name   string
		status int
		want   Kind
	}{
		{"no response", 0, KindNetwork},
		{"unauthorized", 401, KindAuth},
		{"server error low", 500, KindServer},
		{"server error mid", 503, KindServer},
		{"server error high", 599, KindServer},
		{"bad request", 400, KindValidation},
		{"not found", 404, KindGeneric},
		{"forbidden", 403, KindGeneric},
		{"ok but unusable", 200, KindGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(&TransportError{
				StatusCode: tc.status,
				Question:   "leite",
				Err:        errors.New("boom"),
			})
			assert.Equal(t, string(tc.want), got.Source)
			assert.NotEmpty(t, got.Text)
		})
	}
}

func TestClassifyNilNeverPanics(t *testing.T) {
	c := newTestClassifier(t)
	got := c.Classify(nil)
	assert.Equal(t, string(KindGeneric), got.Source)
	assert.NotEmpty(t, got.Text)
}

func TestUnavailableEchoesQuestion(t *testing.T) {
	c := newTestClassifier(t)
	got := c.Unavailable("quanto custa o leite?")
	assert.Equal(t, string(KindGeneric), got.Source)
	assert.Contains(t, got.Text, "quanto custa o leite?")
}

func TestRateLimited(t *testing.T) {
	c := newTestClassifier(t)
	got := c.RateLimited()
	assert.Equal(t, string(KindRateLimited), got.Source)
	assert.NotEmpty(t, got.Text)
}

func TestIsErrorSource(t *testing.T) {
	for _, source := range []string{"network", "auth", "server", "validation", "generic", "rate_limit"} {
		assert.True(t, IsErrorSource(source), source)
	}
	assert.False(t, IsErrorSource("groq"))
	assert.False(t, IsErrorSource(""))
}

func TestTransportErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	terr := &TransportError{Question: "leite", Err: inner}
	assert.ErrorIs(t, terr, inner)
	assert.Contains(t, terr.Error(), "no response")
}

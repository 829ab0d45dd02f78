// Package dispatch delivers a validated question through an ordered set of
// transport tiers and guarantees some answer payload comes back: a cached
// one, a live one, or a locally synthesized fallback. Send never fails.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mercafeira/assistant-go/internal/analytics"
	cachesvc "github.com/mercafeira/assistant-go/internal/cache"
	"github.com/mercafeira/assistant-go/internal/classify"
	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/mercafeira/assistant-go/internal/tokenchannel"
	"github.com/mercafeira/assistant-go/internal/validator"
	"github.com/sirupsen/logrus"
)

const (
	tierPrimary   = "primary"
	tierSecondary = "secondary"
	tierDirect    = "direct"

	outcomeCache     = "cache"
	outcomePrimary   = "primary"
	outcomeSecondary = "secondary"
	outcomeFallback  = "fallback"
	outcomeLimited   = "rate_limited"
)

// Options carries per-send caller context.
type Options struct {
	UseAuth bool
	UserID  int64
}

// Dispatcher orchestrates the ordered-tier delivery attempt. One instance
// serves any number of conversations; token updates arrive through the
// subscribed token channel.
type Dispatcher struct {
	cfg        config.AssistantConfig
	httpClient *http.Client
	cache      cachesvc.Service
	classifier *classify.Classifier
	analytics  analytics.Recorder
	limiter    *userRateLimiter
	logger     *logrus.Logger

	token       *tokenHolder
	unsubscribe func()
}

// New creates a dispatcher. channel may be nil when no cross-process token
// updates are expected; initialToken seeds the bearer credential.
func New(
	cfg *config.Config,
	cache cachesvc.Service,
	classifier *classify.Classifier,
	recorder analytics.Recorder,
	channel tokenchannel.Channel,
	initialToken string,
	logger *logrus.Logger,
) *Dispatcher {
	d := &Dispatcher{
		cfg: cfg.Assistant,
		httpClient: &http.Client{
			Timeout: 2 * cfg.Assistant.RequestTimeout,
		},
		cache:      cache,
		classifier: classifier,
		analytics:  recorder,
		limiter:    newUserRateLimiter(&cfg.RateLimit, logger),
		logger:     logger,
		token:      newTokenHolder(initialToken),
	}

	if channel != nil {
		d.unsubscribe = channel.Subscribe(d.UpdateToken)
	}

	logger.WithFields(logrus.Fields{
		"base_url":  cfg.Assistant.BaseURL,
		"timeout":   cfg.Assistant.RequestTimeout,
		"has_token": initialToken != "",
	}).Info("Dispatcher initialized")

	return d
}

// UpdateToken replaces the bearer credential used by the secondary tier. An
// empty token means logged out. Safe to call from the token channel's
// goroutine while sends are in flight.
func (d *Dispatcher) UpdateToken(token string) {
	d.token.set(token)
	d.analytics.RecordTokenUpdate()
	d.logger.WithField("has_token", token != "").Info("Authentication token updated")
}

// Close detaches the dispatcher from its token channel.
func (d *Dispatcher) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

// Send resolves a question to an answer payload. It consults the response
// cache, then the unauthenticated endpoint, then the authenticated one, and
// finally synthesizes a classified fallback. It never returns an error.
func (d *Dispatcher) Send(ctx context.Context, text string, opts Options) models.AnswerPayload {
	start := time.Now()
	payload, outcome := d.send(ctx, text, opts)
	d.analytics.RecordSend(text, payload, outcome, time.Since(start))
	return payload
}

func (d *Dispatcher) send(ctx context.Context, text string, opts Options) (models.AnswerPayload, string) {
	if !d.limiter.allow(opts.UserID) {
		return d.classifier.RateLimited(), outcomeLimited
	}

	if cached, ok := d.cache.Get(ctx, text); ok {
		d.analytics.RecordCacheHit()
		return *cached, outcomeCache
	}
	d.analytics.RecordCacheMiss()

	payload, err := d.callTier(ctx, tierPrimary, text, opts)
	if err == nil {
		d.cache.Set(ctx, text, payload)
		return payload, outcomePrimary
	}
	d.logger.WithError(err).WithField("tier", tierPrimary).Warn("Primary tier failed")

	if opts.UseAuth && d.token.get() != "" {
		payload, err2 := d.callTier(ctx, tierSecondary, text, opts)
		if err2 == nil {
			d.cache.Set(ctx, text, payload)
			return payload, outcomeSecondary
		}
		// The terminal error drives classification.
		err = err2
		d.logger.WithError(err).WithField("tier", tierSecondary).Warn("Secondary tier failed")
	}

	var terr *classify.TransportError
	if errors.As(err, &terr) {
		return d.classifier.Classify(terr), outcomeFallback
	}
	return d.classifier.Unavailable(text), outcomeFallback
}

// SendDirect calls the direct endpoint variant. It shares the response shape
// with the chain tiers but is not part of the ordered fallback: a failure
// goes straight to classification.
func (d *Dispatcher) SendDirect(ctx context.Context, text string) models.AnswerPayload {
	start := time.Now()

	payload, err := d.callTier(ctx, tierDirect, text, Options{})
	if err != nil {
		d.logger.WithError(err).WithField("tier", tierDirect).Warn("Direct tier failed")
		var terr *classify.TransportError
		if errors.As(err, &terr) {
			payload = d.classifier.Classify(terr)
		} else {
			payload = d.classifier.Unavailable(text)
		}
		d.analytics.RecordSend(text, payload, outcomeFallback, time.Since(start))
		return payload
	}

	d.analytics.RecordSend(text, payload, tierDirect, time.Since(start))
	return payload
}

// tierResponse is the loosely shaped JSON every endpoint returns.
type tierResponse struct {
	Resposta      string `json:"resposta"`
	Reply         string `json:"reply"`
	Fonte         string `json:"fonte"`
	TempoResposta string `json:"tempo_resposta"`
}

func (d *Dispatcher) callTier(ctx context.Context, tier, text string, opts Options) (models.AnswerPayload, error) {
	payload, err := d.doCall(ctx, tier, text, opts)
	if err != nil {
		d.analytics.RecordTierAttempt(tier, "error")
		return models.AnswerPayload{}, err
	}
	d.analytics.RecordTierAttempt(tier, "success")
	return payload, nil
}

func (d *Dispatcher) doCall(ctx context.Context, tier, text string, opts Options) (models.AnswerPayload, error) {
	var path string
	var body map[string]interface{}

	switch tier {
	case tierSecondary:
		path = d.cfg.AuthChatPath
		body = map[string]interface{}{"mensagem": text}
		if opts.UserID > 0 {
			body["idUsuario"] = opts.UserID
		}
	case tierDirect:
		path = d.cfg.DirectPath
		body = map[string]interface{}{"pergunta": text}
	default:
		path = d.cfg.ChatPath
		body = map[string]interface{}{"pergunta": text}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return models.AnswerPayload{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Each tier attempt gets its own deadline so a hung endpoint hands
	// over to the next tier instead of pinning the send forever.
	reqCtx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()

	url := strings.TrimSuffix(d.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.AnswerPayload{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if tier == tierSecondary {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.token.get()))
	}

	d.logger.WithFields(logrus.Fields{
		"tier": tier,
		"url":  url,
	}).Debug("Sending assistant request")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return models.AnswerPayload{}, &classify.TransportError{Question: text, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.AnswerPayload{}, &classify.TransportError{Question: text, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.logger.WithFields(logrus.Fields{
			"tier":   tier,
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Warn("Assistant request failed")
		return models.AnswerPayload{}, &classify.TransportError{
			StatusCode: resp.StatusCode,
			Question:   text,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var result tierResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return models.AnswerPayload{}, &classify.TransportError{
			StatusCode: resp.StatusCode,
			Question:   text,
			Err:        fmt.Errorf("failed to parse response: %w", err),
		}
	}

	answer := result.Resposta
	if answer == "" {
		answer = result.Reply
	}
	if answer == "" {
		return models.AnswerPayload{}, &classify.TransportError{
			StatusCode: resp.StatusCode,
			Question:   text,
			Err:        errors.New("no answer in response"),
		}
	}

	return models.AnswerPayload{
		Text:        validator.SanitizeInbound(answer),
		Source:      result.Fonte,
		ElapsedHint: result.TempoResposta,
	}, nil
}

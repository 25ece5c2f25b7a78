package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrUnavailable means no candidate model produced a response. Callers
// must fall back to canned replies; this error never reaches the user.
var ErrUnavailable = errors.New("llm: no model produced a response")

// Backend abstracts the provider's catalog listing and generation call
// so selection and fallback logic can be tested without the network.
type Backend interface {
	ListModels(ctx context.Context) ([]string, error)
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Responder wraps a hosted text-generation provider with model
// selection, rate-limit fallback across candidate models, and markdown
// sanitization of successful output.
type Responder struct {
	backend  Backend
	selector *Selector
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewResponder lists the provider catalog and builds the initial model
// selection. A failed catalog listing is not fatal: the responder stays
// usable and every Generate call returns ErrUnavailable, which the chat
// pipeline already handles with canned responses.
func NewResponder(ctx context.Context, backend Backend, preferred []string, timeout time.Duration) *Responder {
	logger := log.With().Str("component", "llm").Logger()

	var catalog []string
	if backend != nil {
		var err error
		catalog, err = backend.ListModels(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to list models; responder disabled")
		}
	}

	selector := NewSelector(catalog, preferred)
	if current := selector.Current(); current != "" {
		logger.Info().Str("model", current).Int("candidates", len(selector.Candidates())).
			Msg("Model selected")
	} else {
		logger.Warn().Msg("No generation-capable model available")
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Responder{
		backend:  backend,
		selector: selector,
		timeout:  timeout,
		logger:   logger,
	}
}

// Selector exposes the selection state for tests and diagnostics.
func (r *Responder) Selector() *Selector {
	return r.selector
}

// Generate produces sanitized text for the prompt. A rate-limited
// current model triggers iteration over the remaining candidates; the
// first one that succeeds becomes the new selection. Any other error
// on a candidate skips it without retry. When everything fails the
// caller gets ErrUnavailable.
func (r *Responder) Generate(ctx context.Context, prompt string) (string, error) {
	current := r.selector.Current()
	if current == "" || r.backend == nil {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.backend.Complete(ctx, current, prompt)
	if err == nil {
		return Sanitize(text), nil
	}
	if !isRateLimit(err) {
		r.logger.Error().Err(err).Str("model", current).Msg("Generation failed")
		return "", ErrUnavailable
	}

	r.logger.Warn().Str("model", current).Msg("Rate limited; trying fallback models")
	tried := map[string]bool{current: true}
	for _, candidate := range r.selector.Candidates() {
		if tried[candidate] {
			continue
		}
		tried[candidate] = true

		text, err := r.backend.Complete(ctx, candidate, prompt)
		if err == nil {
			r.selector.Promote(candidate)
			r.logger.Info().Str("model", candidate).Msg("Switched to fallback model")
			return Sanitize(text), nil
		}
		if isRateLimit(err) {
			r.logger.Warn().Str("model", candidate).Msg("Fallback model rate limited")
			continue
		}
		r.logger.Error().Err(err).Str("model", candidate).Msg("Fallback model failed")
	}
	return "", ErrUnavailable
}

// isRateLimit classifies quota exhaustion from the provider: an HTTP
// 429 or a quota keyword in the error text.
func isRateLimit(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted")
}

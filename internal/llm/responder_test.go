package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	catalog    []string
	catalogErr error
	// responses maps model name to reply text; errs maps model name to
	// the error returned instead.
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]string, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeBackend) Complete(ctx context.Context, model, prompt string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

var errRateLimit = errors.New("429: quota exceeded for this model")

func TestSelectorPrefersLiteModels(t *testing.T) {
	s := NewSelector([]string{
		"models/gemini-2.5-pro",
		"models/gemini-2.0-flash",
		"models/gemini-2.0-flash-lite",
	}, nil)
	assert.Equal(t, "models/gemini-2.0-flash-lite", s.Current())
}

func TestSelectorFallsBackToFirstCandidate(t *testing.T) {
	s := NewSelector([]string{"models/alpha-pro", "models/beta-pro"}, nil)
	assert.Equal(t, "models/alpha-pro", s.Current())
}

func TestSelectorExcludesNonGenerativeVariants(t *testing.T) {
	s := NewSelector([]string{
		"models/embedding-001",
		"models/gemini-2.0-flash-preview-image-generation",
		"models/gemini-2.5-flash-preview-tts",
		"models/gemini-exp-1206",
	}, nil)
	assert.Equal(t, "", s.Current())
	assert.Empty(t, s.Candidates())
}

func TestSelectorHonorsConfiguredPreference(t *testing.T) {
	s := NewSelector([]string{"alpha-flash", "beta-pro"}, []string{"pro"})
	assert.Equal(t, "beta-pro", s.Current())
}

func TestGenerateUsesCurrentModel(t *testing.T) {
	backend := &fakeBackend{
		catalog:   []string{"m-flash", "m-pro"},
		responses: map[string]string{"m-flash": "hello from flash"},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	text, err := r.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hello from flash", text)
	assert.Equal(t, []string{"m-flash"}, backend.calls)
}

func TestGenerateRateLimitFallsBackAndPromotes(t *testing.T) {
	backend := &fakeBackend{
		catalog:   []string{"m-flash", "m-pro"},
		responses: map[string]string{"m-pro": "pro answer"},
		errs:      map[string]error{"m-flash": errRateLimit},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)
	require.Equal(t, "m-flash", r.Selector().Current())

	text, err := r.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "pro answer", text)
	// The working fallback becomes the process-wide selection.
	assert.Equal(t, "m-pro", r.Selector().Current())

	// A second call starts with the promoted model.
	backend.calls = nil
	_, err = r.Generate(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, []string{"m-pro"}, backend.calls)
}

func TestGenerateNonRateLimitErrorGivesUp(t *testing.T) {
	backend := &fakeBackend{
		catalog:   []string{"m-flash", "m-pro"},
		responses: map[string]string{"m-pro": "pro answer"},
		errs:      map[string]error{"m-flash": errors.New("network timeout")},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	_, err := r.Generate(context.Background(), "say hi")
	assert.ErrorIs(t, err, ErrUnavailable)
	// No fallback iteration on a non-rate-limit failure.
	assert.Equal(t, []string{"m-flash"}, backend.calls)
}

func TestGenerateSkipsFailingCandidateWithoutRetry(t *testing.T) {
	backend := &fakeBackend{
		catalog:   []string{"m-flash", "m-mini-x", "m-pro"},
		responses: map[string]string{"m-pro": "pro answer"},
		errs: map[string]error{
			"m-flash":  errRateLimit,
			"m-mini-x": errors.New("bad gateway"),
		},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	text, err := r.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "pro answer", text)
	assert.Equal(t, []string{"m-flash", "m-mini-x", "m-pro"}, backend.calls)
}

func TestGenerateAllCandidatesFail(t *testing.T) {
	backend := &fakeBackend{
		catalog: []string{"m-flash", "m-pro"},
		errs: map[string]error{
			"m-flash": errRateLimit,
			"m-pro":   errRateLimit,
		},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	_, err := r.Generate(context.Background(), "say hi")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateWithEmptyCatalog(t *testing.T) {
	backend := &fakeBackend{catalogErr: errors.New("api down")}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	_, err := r.Generate(context.Background(), "say hi")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, backend.calls)
}

func TestGenerateSanitizesOutput(t *testing.T) {
	backend := &fakeBackend{
		catalog:   []string{"m-flash"},
		responses: map[string]string{"m-flash": "## Title\n**Bold** and *italic*\n* one\n- two"},
	}
	r := NewResponder(context.Background(), backend, nil, time.Second)

	text, err := r.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "Title\nBold and italic\n• one\n• two", text)
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"**bold**", "bold"},
		{"*emphasis*", "emphasis"},
		{"### Header\nbody", "Header\nbody"},
		{"* bullet", "• bullet"},
		{"- bullet", "• bullet"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Sanitize(tc.in), tc.in)
	}
}

package mastodon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/mastopoll/internal/domain"
)

func settings() domain.MastodonSettings {
	return domain.MastodonSettings{
		InstanceEnvVar: "TEST_MAST_INSTANCE",
		TokenEnvVar:    "TEST_MAST_TOKEN",
		Visibility:     "public",
		Language:       "en",
		PollExpiresIn:  72000,
	}
}

func TestPublishSubmitsPollForm(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/statuses", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		form, err = url.ParseQuery(string(raw))
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1101","url":"https://example.social/@polls/1101"}`)
	}))
	defer srv.Close()

	pub := NewPublisher(srv.URL, "secret", settings(), nil)
	c := domain.Candidate{Question: "Is pizza good?", Answers: []string{"Yes", "No", "Maybe", "Only with pineapple"}}

	result, err := pub.Publish(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, "1101", result.ID)
	assert.Equal(t, "https://example.social/@polls/1101", result.URL)
	assert.Equal(t, "Is pizza good?", form.Get("status"))
	assert.Equal(t, "public", form.Get("visibility"))
	assert.Equal(t, "en", form.Get("language"))
	assert.Equal(t, []string{"Yes", "No", "Maybe", "Only with pineapple"}, form["poll[options][]"])
	assert.Equal(t, "72000", form.Get("poll[expires_in]"))
}

func TestPublishErrorIsExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":"Validation failed: Poll options are too long"}`)
	}))
	defer srv.Close()

	pub := NewPublisher(srv.URL, "secret", settings(), nil)
	_, err := pub.Publish(context.Background(), domain.Candidate{Question: "Q?", Answers: []string{"a", "b", "c", "d"}})

	require.ErrorIs(t, err, domain.ErrExternalService)
	assert.Contains(t, err.Error(), "Poll options are too long")
}

func TestPublishRejectsWrongAnswerCount(t *testing.T) {
	pub := NewPublisher("https://example.invalid", "secret", settings(), nil)
	_, err := pub.Publish(context.Background(), domain.Candidate{Question: "Q?", Answers: []string{"a", "b"}})
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestNewPublisherFromEnv(t *testing.T) {
	t.Run("missing instance", func(t *testing.T) {
		t.Setenv("TEST_MAST_INSTANCE", "")
		t.Setenv("TEST_MAST_TOKEN", "secret")
		_, err := NewPublisherFromEnv(settings())
		assert.ErrorIs(t, err, domain.ErrConfig)
	})
	t.Run("missing token", func(t *testing.T) {
		t.Setenv("TEST_MAST_INSTANCE", "example.social")
		t.Setenv("TEST_MAST_TOKEN", "")
		_, err := NewPublisherFromEnv(settings())
		assert.ErrorIs(t, err, domain.ErrConfig)
	})
	t.Run("both present", func(t *testing.T) {
		t.Setenv("TEST_MAST_INSTANCE", "example.social")
		t.Setenv("TEST_MAST_TOKEN", "secret")
		pub, err := NewPublisherFromEnv(settings())
		require.NoError(t, err)
		assert.Equal(t, "https://example.social", pub.baseURL)
	})
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://example.social", BaseURL("example.social/"))
	assert.Equal(t, "http://localhost:3000", BaseURL("http://localhost:3000"))
}

func TestFormDefaults(t *testing.T) {
	pub := NewPublisher("https://example.social", "t", domain.MastodonSettings{}, nil)
	form := pub.Form(domain.Candidate{Question: "Q?", Answers: []string{"a", "b", "c", "d"}})
	assert.Equal(t, "28800", form.Get("poll[expires_in]"))
	assert.Equal(t, "public", form.Get("visibility"))
}

func TestIdempotencyKeyStablePerQuestion(t *testing.T) {
	a := domain.Candidate{Question: "Q?", Answers: []string{"a", "b", "c", "d"}}
	b := domain.Candidate{Question: "Q?", Answers: []string{"w", "x", "y", "z"}}
	c := domain.Candidate{Question: "Other?", Answers: []string{"a", "b", "c", "d"}}
	assert.Equal(t, IdempotencyKey(a), IdempotencyKey(b))
	assert.NotEqual(t, IdempotencyKey(a), IdempotencyKey(c))
}

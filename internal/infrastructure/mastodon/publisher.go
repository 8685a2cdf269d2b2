// Package mastodon publishes accepted candidates as Mastodon polls.
package mastodon

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

const statusesPath = "/api/v1/statuses"

// Publisher posts polls to a single Mastodon instance.
type Publisher struct {
	client   *resty.Client
	baseURL  string
	token    string
	settings domain.MastodonSettings
}

// NewPublisherFromEnv reads the instance host and bearer token from the
// environment variables named in settings. Either one missing is a config error.
func NewPublisherFromEnv(settings domain.MastodonSettings) (*Publisher, error) {
	instance := strings.TrimSpace(os.Getenv(settings.InstanceEnvVar))
	if instance == "" {
		return nil, domain.ConfigError("mastodon", "instance host missing: set %s", settings.InstanceEnvVar)
	}
	token := strings.TrimSpace(os.Getenv(settings.TokenEnvVar))
	if token == "" {
		return nil, domain.ConfigError("mastodon", "access token missing: set %s", settings.TokenEnvVar)
	}
	return NewPublisher(BaseURL(instance), token, settings, nil), nil
}

// NewPublisher builds a publisher for baseURL. A nil client gets a default one.
func NewPublisher(baseURL, token string, settings domain.MastodonSettings, client *resty.Client) *Publisher {
	if client == nil {
		timeout := domain.DefaultHTTPClientTimeout
		if settings.TimeoutSeconds > 0 {
			timeout = time.Duration(settings.TimeoutSeconds) * time.Second
		}
		client = resty.New().SetTimeout(timeout)
	}
	return &Publisher{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		settings: settings,
	}
}

// BaseURL turns a bare host ("mastodon.social") into an https URL.
// Values that already carry a scheme are kept.
func BaseURL(instance string) string {
	instance = strings.TrimSpace(instance)
	if strings.HasPrefix(instance, "http://") || strings.HasPrefix(instance, "https://") {
		return strings.TrimRight(instance, "/")
	}
	return "https://" + strings.TrimRight(instance, "/")
}

// Form builds the status form. Mastodon reads repeated poll[options][] keys in order.
func (p *Publisher) Form(c domain.Candidate) url.Values {
	form := url.Values{}
	form.Set("status", c.Question)
	form.Set("visibility", valueOr(p.settings.Visibility, domain.DefaultVisibility))
	form.Set("language", valueOr(p.settings.Language, domain.DefaultLanguage))
	for _, answer := range c.Answers {
		form.Add("poll[options][]", answer)
	}
	expires := p.settings.PollExpiresIn
	if expires <= 0 {
		expires = domain.DefaultPollExpiresIn
	}
	form.Set("poll[expires_in]", strconv.Itoa(expires))
	return form
}

// Publish implements ports.Publisher.
func (p *Publisher) Publish(ctx context.Context, c domain.Candidate) (domain.PublishResult, error) {
	if len(c.Answers) != domain.AnswerCount {
		return domain.PublishResult{}, domain.NewError(domain.KindExternalService, "publish poll",
			fmt.Errorf("poll needs %d options, got %d", domain.AnswerCount, len(c.Answers)))
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.token).
		SetHeader("Accept", "application/json").
		SetHeader("Idempotency-Key", IdempotencyKey(c)).
		SetFormDataFromValues(p.Form(c)).
		Post(p.baseURL + statusesPath)
	if err != nil {
		return domain.PublishResult{}, domain.NewError(domain.KindExternalService, "publish poll", err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error").String()
		if msg == "" {
			msg = resp.Status()
		}
		return domain.PublishResult{}, domain.NewError(domain.KindExternalService, "publish poll",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode(), msg))
	}

	body := resp.Body()
	return domain.PublishResult{
		ID:  gjson.GetBytes(body, "id").String(),
		URL: gjson.GetBytes(body, "url").String(),
	}, nil
}

// IdempotencyKey is stable for a given question so a repeated submission
// within the server's idempotency window returns the original status.
func IdempotencyKey(c domain.Candidate) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mastopoll:"+c.Question)).String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

var _ ports.Publisher = (*Publisher)(nil)

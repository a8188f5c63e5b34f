package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"postdeck/pkg/config"
	"postdeck/pkg/logger"
	"postdeck/pkg/ratelimit"
)

const (
	defaultAPIBase = "https://api.postdeck.dev/platforms"

	publishEndpoint = "create_post"
	maxRetries      = 3
	initialDelay    = 1 * time.Second
)

type publishPayload struct {
	OrgRef    string   `json:"org_ref"`
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

type publishResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RESTPublisher talks the one generic JSON contract every platform is
// reached through: POST {base}/{kind}/posts. It consults the rate-limit
// tracker before each outbound call and retries 429/5xx with exponential
// backoff.
type RESTPublisher struct {
	kind    string
	baseURL string
	token   string
	client  *http.Client
	limiter *ratelimit.Tracker
	logger  *logger.Logger
}

func NewRESTPublisher(kind, baseURL, token string, limiter *ratelimit.Tracker, log *logger.Logger) *RESTPublisher {
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	return &RESTPublisher{
		kind:    kind,
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		logger:  log,
	}
}

func (p *RESTPublisher) Kind() string { return p.kind }

func (p *RESTPublisher) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if !p.limiter.Allow(p.kind, publishEndpoint) {
		return nil, fmt.Errorf("%w: %s %s", ErrRateLimited, p.kind, publishEndpoint)
	}

	body, err := json.Marshal(publishPayload{
		OrgRef:    req.OrgID,
		Text:      req.Body,
		MediaURLs: req.MediaURLs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal publish payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/posts", p.baseURL, p.kind)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if p.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+p.token)
		}

		resp, err := p.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("%s API error (%d): %s", p.kind, resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("%s API error (%d): %s", p.kind, resp.StatusCode, string(respBody))
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				p.logger.Warn("Publish attempt %d to %s failed: %v", attempt+1, p.kind, lastErr)
				continue
			}
			return nil, lastErr
		}

		var pubResp publishResponse
		if err := json.Unmarshal(respBody, &pubResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if pubResp.ID == "" {
			return nil, fmt.Errorf("%s returned no post id", p.kind)
		}

		return &PublishResult{PlatformPostID: pubResp.ID}, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}

// DefaultRegistry wires a REST publisher for every supported kind, with
// per-kind window limits registered on the shared tracker.
func DefaultRegistry(cfg *config.Config, limiter *ratelimit.Tracker, log *logger.Logger) *Registry {
	limiter.SetLimits(KindTwitter, ratelimit.Limits{PerQuarterHour: 50, PerDay: 300})
	limiter.SetLimits(KindLinkedIn, ratelimit.Limits{PerQuarterHour: 20, PerDay: 150})
	limiter.SetLimits(KindFacebook, ratelimit.Limits{PerQuarterHour: 60, PerDay: 600})
	limiter.SetLimits(KindInstagram, ratelimit.Limits{PerQuarterHour: 25, PerDay: 100})

	reg := NewRegistry()
	for _, kind := range []string{KindTwitter, KindLinkedIn, KindFacebook, KindInstagram} {
		reg.Register(NewRESTPublisher(kind, cfg.PlatformAPIBase, cfg.PlatformAPIToken, limiter, log))
	}
	return reg
}

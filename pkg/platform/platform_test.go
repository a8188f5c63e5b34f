package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postdeck/pkg/logger"
	"postdeck/pkg/ratelimit"
)

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	pub := NewRESTPublisher(KindTwitter, "http://localhost", "", ratelimit.New(), logger.New())
	reg.Register(pub)

	got, err := reg.Resolve(KindTwitter)
	require.NoError(t, err)
	assert.Equal(t, KindTwitter, got.Kind())

	_, err = reg.Resolve("myspace")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestRESTPublisherSuccess(t *testing.T) {
	var gotPayload publishPayload
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/twitter/posts", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"tw-123"}`))
	}))
	defer server.Close()

	pub := NewRESTPublisher(KindTwitter, server.URL, "tok-1", ratelimit.New(), logger.New())

	result, err := pub.Publish(context.Background(), PublishRequest{
		OrgID:     "org-1",
		Body:      "hello world #postdeck",
		MediaURLs: []string{"https://cdn/img.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tw-123", result.PlatformPostID)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "org-1", gotPayload.OrgRef)
	assert.Equal(t, "hello world #postdeck", gotPayload.Text)
}

func TestRESTPublisherRateLimited(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer server.Close()

	limiter := ratelimit.New()
	limiter.SetLimits(KindTwitter, ratelimit.Limits{PerQuarterHour: 1, PerDay: 1})
	pub := NewRESTPublisher(KindTwitter, server.URL, "", limiter, logger.New())

	_, err := pub.Publish(context.Background(), PublishRequest{Body: "first"})
	require.NoError(t, err)

	_, err = pub.Publish(context.Background(), PublishRequest{Body: "second"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls, "rate-limited publish must not reach the API")
}

func TestRESTPublisherRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":"li-9"}`))
	}))
	defer server.Close()

	pub := NewRESTPublisher(KindLinkedIn, server.URL, "", ratelimit.New(), logger.New())

	result, err := pub.Publish(context.Background(), PublishRequest{Body: "retry me"})
	require.NoError(t, err)
	assert.Equal(t, "li-9", result.PlatformPostID)
	assert.Equal(t, 2, calls)
}

func TestRESTPublisherClientErrorIsFinal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"message":"text too long"}}`))
	}))
	defer server.Close()

	pub := NewRESTPublisher(KindTwitter, server.URL, "", ratelimit.New(), logger.New())

	_, err := pub.Publish(context.Background(), PublishRequest{Body: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text too long")
	assert.Equal(t, 1, calls)
}

func TestRESTPublisherHonorsContextDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	pub := NewRESTPublisher(KindTwitter, server.URL, "", ratelimit.New(), logger.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pub.Publish(ctx, PublishRequest{Body: "canceled"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDefaultRegistryCoversAllKinds(t *testing.T) {
	reg := NewRegistry()
	limiter := ratelimit.New()
	for _, kind := range []string{KindTwitter, KindLinkedIn, KindFacebook, KindInstagram} {
		reg.Register(NewRESTPublisher(kind, "", "", limiter, logger.New()))
	}

	assert.Len(t, reg.Kinds(), 4)
	for _, kind := range []string{KindTwitter, KindLinkedIn, KindFacebook, KindInstagram} {
		_, err := reg.Resolve(kind)
		assert.NoError(t, err)
	}
}

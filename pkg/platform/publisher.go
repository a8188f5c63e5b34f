package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Supported platform kinds. The publish path treats them uniformly; any
// vendor-specific shaping happens on the far side of the REST contract.
const (
	KindTwitter   = "twitter"
	KindLinkedIn  = "linkedin"
	KindFacebook  = "facebook"
	KindInstagram = "instagram"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrRateLimited     = errors.New("platform rate limit exhausted")
)

// PublishRequest carries everything a platform needs to create a post.
type PublishRequest struct {
	OrgID     string
	Body      string
	MediaURLs []string
}

// PublishResult is the platform's acknowledgment of a created post.
type PublishResult struct {
	PlatformPostID string
}

// Publisher is the outbound port for one social platform.
type Publisher interface {
	Kind() string
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

// Registry resolves publishers by platform kind.
type Registry struct {
	mu         sync.RWMutex
	publishers map[string]Publisher
}

func NewRegistry() *Registry {
	return &Registry{publishers: make(map[string]Publisher)}
}

func (r *Registry) Register(p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[p.Kind()] = p
}

func (r *Registry) Resolve(kind string) (Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.publishers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, kind)
	}
	return p, nil
}

// Kinds returns the registered platform kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.publishers))
	for k := range r.publishers {
		kinds = append(kinds, k)
	}
	return kinds
}

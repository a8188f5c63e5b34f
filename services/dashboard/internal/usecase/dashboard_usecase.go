package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postdeck/pkg/logger"
	"postdeck/pkg/memcache"
	"postdeck/pkg/ratelimit"
	"postdeck/services/dashboard/internal/entity"
	"postdeck/services/dashboard/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const (
	// upcomingWindow bounds the scheduled-post lookahead in the overview.
	upcomingWindow = 7 * 24 * time.Hour
	upcomingLimit  = 10

	// forumWindow bounds the community activity counters.
	forumWindow = 7 * 24 * time.Hour
)

type DashboardUseCase interface {
	Overview(orgID string) (*entity.Overview, error)
	SystemHealth(ctx context.Context, authToken string) (*SystemHealth, error)
}

// QueueInspector is the slice of the event queue client the health check
// needs.
type QueueInspector interface {
	QueueLength() (int, error)
}

type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type QueueHealth struct {
	Status string `json:"status"`
	Depth  int    `json:"depth"`
	Error  string `json:"error,omitempty"`
}

// SystemHealth is the staff-facing operational snapshot. Platform limits
// are proxied from the content service because its trackers are process
// local.
type SystemHealth struct {
	Status         string             `json:"status"`
	Database       ComponentHealth    `json:"database"`
	Redis          ComponentHealth    `json:"redis"`
	Queue          QueueHealth        `json:"queue"`
	PlatformLimits []ratelimit.Status `json:"platform_limits"`
	LimitsError    string             `json:"limits_error,omitempty"`
	Cache          memcache.Stats     `json:"cache"`
	CheckedAt      time.Time          `json:"checked_at"`
}

type dashboardUseCase struct {
	repo              persistent.DashboardRepository
	cache             *memcache.Manager
	redisClient       *redis.Client
	queue             QueueInspector
	contentServiceURL string
	logger            *logger.Logger
	now               func() time.Time
}

func NewDashboardUseCase(repo persistent.DashboardRepository, cache *memcache.Manager, redisClient *redis.Client, queue QueueInspector, contentServiceURL string, logger *logger.Logger) DashboardUseCase {
	return &dashboardUseCase{
		repo:              repo,
		cache:             cache,
		redisClient:       redisClient,
		queue:             queue,
		contentServiceURL: contentServiceURL,
		logger:            logger,
		now:               time.Now,
	}
}

func overviewKey(orgID string) string {
	return "overview:" + orgID
}

func (uc *dashboardUseCase) Overview(orgID string) (*entity.Overview, error) {
	if cached, ok := uc.cache.Get(overviewKey(orgID)); ok {
		return cached.(*entity.Overview), nil
	}

	now := uc.now()
	overview := &entity.Overview{
		OrgID:       orgID,
		GeneratedAt: now,
	}

	counts, err := uc.repo.PostCounts(orgID)
	if err != nil {
		uc.logger.Error("Failed to count posts: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.Posts = counts

	upcoming, err := uc.repo.UpcomingPosts(orgID, now, now.Add(upcomingWindow), upcomingLimit)
	if err != nil {
		uc.logger.Error("Failed to load upcoming posts: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.Upcoming = upcoming

	members, err := uc.repo.MemberCount(orgID)
	if err != nil {
		uc.logger.Error("Failed to count members: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.MemberCount = members

	tickets, err := uc.repo.OpenTicketCount(orgID)
	if err != nil {
		uc.logger.Error("Failed to count open tickets: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.OpenTickets = tickets

	forum, err := uc.repo.ForumActivitySince(now.Add(-forumWindow))
	if err != nil {
		uc.logger.Error("Failed to count forum activity: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.Forum = forum

	requests, err := uc.repo.AIRequestsForMonth(orgID, now.UTC().Format("2006-01"))
	if err != nil {
		uc.logger.Error("Failed to read AI usage: %v", err)
		return nil, fmt.Errorf("failed to build overview")
	}
	overview.AIRequests = requests

	uc.cache.Set(overviewKey(orgID), overview)
	return overview, nil
}

func (uc *dashboardUseCase) SystemHealth(ctx context.Context, authToken string) (*SystemHealth, error) {
	health := &SystemHealth{
		Status:    "ok",
		Cache:     uc.cache.Stats(),
		CheckedAt: uc.now(),
	}

	if err := uc.repo.PingDatabase(); err != nil {
		health.Database = ComponentHealth{Status: "error", Error: err.Error()}
		health.Status = "degraded"
	} else {
		health.Database = ComponentHealth{Status: "ok"}
	}

	if uc.redisClient == nil {
		health.Redis = ComponentHealth{Status: "unavailable"}
		health.Status = "degraded"
	} else if err := uc.redisClient.Ping(ctx).Err(); err != nil {
		health.Redis = ComponentHealth{Status: "error", Error: err.Error()}
		health.Status = "degraded"
	} else {
		health.Redis = ComponentHealth{Status: "ok"}
	}

	// Event delivery is best effort everywhere else, so a missing broker
	// does not flip the overall status.
	if uc.queue == nil {
		health.Queue = QueueHealth{Status: "unavailable"}
	} else if depth, err := uc.queue.QueueLength(); err != nil {
		health.Queue = QueueHealth{Status: "error", Error: err.Error()}
	} else {
		health.Queue = QueueHealth{Status: "ok", Depth: depth}
	}

	limits, err := uc.fetchPlatformLimits(authToken)
	if err != nil {
		uc.logger.Warn("Failed to fetch platform limits: %v", err)
		health.PlatformLimits = []ratelimit.Status{}
		health.LimitsError = err.Error()
	} else {
		health.PlatformLimits = limits
	}

	return health, nil
}

func (uc *dashboardUseCase) fetchPlatformLimits(authToken string) ([]ratelimit.Status, error) {
	url := fmt.Sprintf("%s/api/v1/platforms/limits", uc.contentServiceURL)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("content service returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Limits []ratelimit.Status `json:"limits"`
		Count  int                `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result.Limits, nil
}

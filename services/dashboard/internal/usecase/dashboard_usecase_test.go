package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"postdeck/pkg/logger"
	"postdeck/pkg/memcache"
	"postdeck/pkg/roles"
	"postdeck/services/dashboard/internal/entity"
	"postdeck/services/dashboard/internal/repo/persistent"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) PostCounts(orgID string) (entity.PostCounts, error) {
	args := m.Called(orgID)
	return args.Get(0).(entity.PostCounts), args.Error(1)
}

func (m *MockDashboardRepository) UpcomingPosts(orgID string, from, until time.Time, limit int) ([]*entity.UpcomingPost, error) {
	args := m.Called(orgID, from, until, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UpcomingPost), args.Error(1)
}

func (m *MockDashboardRepository) MemberCount(orgID string) (int64, error) {
	args := m.Called(orgID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) OpenTicketCount(orgID string) (int64, error) {
	args := m.Called(orgID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) ForumActivitySince(since time.Time) (entity.ForumActivity, error) {
	args := m.Called(since)
	return args.Get(0).(entity.ForumActivity), args.Error(1)
}

func (m *MockDashboardRepository) AIRequestsForMonth(orgID, month string) (int, error) {
	args := m.Called(orgID, month)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepository) PingDatabase() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDashboardRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	args := m.Called(orgID, userID)
	return args.Get(0).(roles.Role), args.Error(1)
}

var _ persistent.DashboardRepository = (*MockDashboardRepository)(nil)

type MockQueueInspector struct {
	mock.Mock
}

func (m *MockQueueInspector) QueueLength() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

var _ QueueInspector = (*MockQueueInspector)(nil)

var testNow = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func newTestUseCase(repo persistent.DashboardRepository, queue QueueInspector, contentURL string) *dashboardUseCase {
	cache := memcache.New(memcache.PolicyLRU, 8, time.Minute)
	uc := NewDashboardUseCase(repo, cache, nil, queue, contentURL, logger.New()).(*dashboardUseCase)
	uc.now = func() time.Time { return testNow }
	return uc
}

func limitsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestOverview_AssemblesAggregates(t *testing.T) {
	repo := new(MockDashboardRepository)
	until := testNow.Add(7 * 24 * time.Hour)
	since := testNow.Add(-7 * 24 * time.Hour)

	repo.On("PostCounts", "org-1").Return(entity.PostCounts{Draft: 2, Scheduled: 3, Published: 14, Failed: 1}, nil)
	repo.On("UpcomingPosts", "org-1", testNow, until, 10).Return([]*entity.UpcomingPost{
		{ID: "post-1", Platform: "twitter", Excerpt: "We ship in two hours.", ScheduledFor: testNow.Add(2 * time.Hour)},
	}, nil)
	repo.On("MemberCount", "org-1").Return(int64(4), nil)
	repo.On("OpenTicketCount", "org-1").Return(int64(2), nil)
	repo.On("ForumActivitySince", since).Return(entity.ForumActivity{Posts: 5, Comments: 12}, nil)
	repo.On("AIRequestsForMonth", "org-1", "2025-04").Return(37, nil)

	uc := newTestUseCase(repo, nil, "")

	overview, err := uc.Overview("org-1")

	require.NoError(t, err)
	assert.Equal(t, "org-1", overview.OrgID)
	assert.Equal(t, int64(3), overview.Posts.Scheduled)
	assert.Equal(t, int64(14), overview.Posts.Published)
	require.Len(t, overview.Upcoming, 1)
	assert.Equal(t, "twitter", overview.Upcoming[0].Platform)
	assert.Equal(t, int64(4), overview.MemberCount)
	assert.Equal(t, int64(2), overview.OpenTickets)
	assert.Equal(t, int64(5), overview.Forum.Posts)
	assert.Equal(t, int64(12), overview.Forum.Comments)
	assert.Equal(t, 37, overview.AIRequests)
	assert.Equal(t, testNow, overview.GeneratedAt)
	repo.AssertExpectations(t)
}

func TestOverview_SecondReadServesFromCache(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PostCounts", "org-1").Return(entity.PostCounts{Scheduled: 1}, nil).Once()
	repo.On("UpcomingPosts", "org-1", mock.Anything, mock.Anything, 10).Return([]*entity.UpcomingPost{}, nil).Once()
	repo.On("MemberCount", "org-1").Return(int64(1), nil).Once()
	repo.On("OpenTicketCount", "org-1").Return(int64(0), nil).Once()
	repo.On("ForumActivitySince", mock.Anything).Return(entity.ForumActivity{}, nil).Once()
	repo.On("AIRequestsForMonth", "org-1", "2025-04").Return(0, nil).Once()

	uc := newTestUseCase(repo, nil, "")

	first, err := uc.Overview("org-1")
	require.NoError(t, err)
	second, err := uc.Overview("org-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	repo.AssertNumberOfCalls(t, "PostCounts", 1)
}

func TestOverview_ErrorIsNotCached(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PostCounts", "org-1").Return(entity.PostCounts{}, errors.New("db down")).Twice()

	uc := newTestUseCase(repo, nil, "")

	_, err := uc.Overview("org-1")
	assert.EqualError(t, err, "failed to build overview")

	_, err = uc.Overview("org-1")
	assert.EqualError(t, err, "failed to build overview")
	repo.AssertNumberOfCalls(t, "PostCounts", 2)
}

func TestOverview_UsageMonthIsUTC(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PostCounts", "org-1").Return(entity.PostCounts{}, nil)
	repo.On("UpcomingPosts", "org-1", mock.Anything, mock.Anything, 10).Return([]*entity.UpcomingPost{}, nil)
	repo.On("MemberCount", "org-1").Return(int64(0), nil)
	repo.On("OpenTicketCount", "org-1").Return(int64(0), nil)
	repo.On("ForumActivitySince", mock.Anything).Return(entity.ForumActivity{}, nil)
	repo.On("AIRequestsForMonth", "org-1", "2025-04").Return(0, nil)

	uc := newTestUseCase(repo, nil, "")
	// Half past midnight on May 1st local time is still April in UTC.
	uc.now = func() time.Time {
		return time.Date(2025, 5, 1, 0, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	}

	_, err := uc.Overview("org-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSystemHealth_DegradedWhenDatabaseDown(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PingDatabase").Return(errors.New("connection refused"))

	server := limitsServer(t, http.StatusOK, `{"limits": [], "count": 0}`)
	defer server.Close()

	uc := newTestUseCase(repo, nil, server.URL)

	health, err := uc.SystemHealth(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "error", health.Database.Status)
	assert.Contains(t, health.Database.Error, "connection refused")
	assert.Equal(t, "unavailable", health.Redis.Status)
	assert.Equal(t, "unavailable", health.Queue.Status)
	assert.Equal(t, testNow, health.CheckedAt)
}

func TestSystemHealth_ReportsQueueDepthAndCacheStats(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PingDatabase").Return(nil)

	queue := new(MockQueueInspector)
	queue.On("QueueLength").Return(7, nil)

	server := limitsServer(t, http.StatusOK, `{"limits": [], "count": 0}`)
	defer server.Close()

	uc := newTestUseCase(repo, queue, server.URL)

	health, err := uc.SystemHealth(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "ok", health.Database.Status)
	assert.Equal(t, "ok", health.Queue.Status)
	assert.Equal(t, 7, health.Queue.Depth)
	assert.Equal(t, memcache.PolicyLRU, health.Cache.Policy)
	assert.Equal(t, 8, health.Cache.Capacity)
	queue.AssertExpectations(t)
}

func TestSystemHealth_ForwardsAuthorizationToContentService(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PingDatabase").Return(nil)

	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"limits":[{"platform":"twitter","endpoint":"create_post","used_15m":3,"limit_15m":50,"remaining_15m":47,"used_24h":3,"limit_24h":300,"remaining_24h":297}],"count":1}`)
	}))
	defer server.Close()

	uc := newTestUseCase(repo, nil, server.URL)

	health, err := uc.SystemHealth(context.Background(), "Bearer staff-token")

	require.NoError(t, err)
	assert.Equal(t, "Bearer staff-token", gotAuth)
	assert.Equal(t, "/api/v1/platforms/limits", gotPath)
	require.Len(t, health.PlatformLimits, 1)
	assert.Equal(t, "twitter", health.PlatformLimits[0].Platform)
	assert.Equal(t, 47, health.PlatformLimits[0].RemainingQuarterHour)
	assert.Empty(t, health.LimitsError)
}

func TestSystemHealth_LimitsFailureIsIsolated(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("PingDatabase").Return(nil)

	server := limitsServer(t, http.StatusBadGateway, `{"error":"content service unavailable"}`)
	defer server.Close()

	uc := newTestUseCase(repo, nil, server.URL)

	health, err := uc.SystemHealth(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, health.PlatformLimits)
	assert.Empty(t, health.PlatformLimits)
	assert.Contains(t, health.LimitsError, "content service returned 502")
}

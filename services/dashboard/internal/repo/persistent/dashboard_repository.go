package persistent

import (
	"errors"
	"time"

	"postdeck/pkg/middleware"
	"postdeck/pkg/models"
	"postdeck/pkg/roles"
	"postdeck/services/dashboard/internal/entity"

	"gorm.io/gorm"
)

// DashboardRepository reads the shared tables every service writes. The
// dashboard owns no tables of its own.
type DashboardRepository interface {
	PostCounts(orgID string) (entity.PostCounts, error)
	UpcomingPosts(orgID string, from, until time.Time, limit int) ([]*entity.UpcomingPost, error)
	MemberCount(orgID string) (int64, error)
	OpenTicketCount(orgID string) (int64, error)
	ForumActivitySince(since time.Time) (entity.ForumActivity, error)
	AIRequestsForMonth(orgID, month string) (int, error)

	PingDatabase() error
	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) PostCounts(orgID string) (entity.PostCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.Post{}).
		Select("status, COUNT(*) AS count").
		Where("org_id = ?", orgID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return entity.PostCounts{}, err
	}

	var counts entity.PostCounts
	for _, row := range rows {
		switch models.PostStatus(row.Status) {
		case models.PostStatusDraft:
			counts.Draft = row.Count
		case models.PostStatusScheduled:
			counts.Scheduled = row.Count
		case models.PostStatusPublished:
			counts.Published = row.Count
		case models.PostStatusFailed:
			counts.Failed = row.Count
		}
	}
	return counts, nil
}

func (r *dashboardRepository) UpcomingPosts(orgID string, from, until time.Time, limit int) ([]*entity.UpcomingPost, error) {
	var posts []models.Post
	err := r.db.
		Where("org_id = ? AND status = ? AND scheduled_for > ? AND scheduled_for <= ?",
			orgID, models.PostStatusScheduled, from, until).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	upcoming := make([]*entity.UpcomingPost, len(posts))
	for i := range posts {
		upcoming[i] = ToUpcomingPost(&posts[i])
	}
	return upcoming, nil
}

func (r *dashboardRepository) MemberCount(orgID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrganizationMember{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) OpenTicketCount(orgID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SupportTicket{}).
		Where("org_id = ? AND status IN ?", orgID, []models.TicketStatus{models.TicketOpen, models.TicketPending}).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) ForumActivitySince(since time.Time) (entity.ForumActivity, error) {
	var activity entity.ForumActivity
	err := r.db.Model(&models.ForumPost{}).
		Where("created_at >= ?", since).
		Count(&activity.Posts).Error
	if err != nil {
		return entity.ForumActivity{}, err
	}

	err = r.db.Model(&models.ForumComment{}).
		Where("created_at >= ?", since).
		Count(&activity.Comments).Error
	if err != nil {
		return entity.ForumActivity{}, err
	}
	return activity, nil
}

func (r *dashboardRepository) AIRequestsForMonth(orgID, month string) (int, error) {
	var usage models.AIUsage
	err := r.db.Where("org_id = ? AND month = ?", orgID, month).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return usage.Requests, nil
}

func (r *dashboardRepository) PingDatabase() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *dashboardRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	var org models.Organization
	if err := r.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	if org.OwnerID == userID {
		return roles.RoleOwner, nil
	}

	var member models.OrganizationMember
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	return roles.Effective(org.OwnerID, userID, roles.Role(member.Role)), nil
}

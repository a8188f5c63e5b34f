package main

import (
	"bytes"
	"fmt"
	"time"

	"postdeck/pkg/config"
	"postdeck/pkg/database"
	"postdeck/pkg/logger"
	"postdeck/pkg/models"
	"postdeck/pkg/roles"
	"postdeck/pkg/s3"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, s3Client, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, s3Client *s3.Client, log *logger.Logger) error {
	planIDs, err := seedPlans(db, log)
	if err != nil {
		return err
	}

	testUsers := []struct {
		email    string
		username string
		password string
		role     models.AccountRole
	}{
		{"owner@demo.postdeck.dev", "demo_owner", "password123", models.AccountRoleMember},
		{"editor@demo.postdeck.dev", "demo_editor", "password123", models.AccountRoleMember},
		{"viewer@demo.postdeck.dev", "demo_viewer", "password123", models.AccountRoleMember},
		{"support@postdeck.dev", "postdeck_support", "password123", models.AccountRoleStaff},
	}

	userIDs := make([]string, 0, len(testUsers))
	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     userData.role,
			IsActive: true,
		}
		if err := user.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate user ID: %w", err)
		}

		var existing models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existing)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}
		log.Info("Created user: %s (%s)", user.Username, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	if len(userIDs) < 3 {
		return fmt.Errorf("expected at least 3 seeded users, got %d", len(userIDs))
	}

	orgID, err := seedOrganization(db, userIDs, planIDs[models.PlanPro], log)
	if err != nil {
		return err
	}

	if err := seedPosts(db, s3Client, orgID, userIDs[0], log); err != nil {
		return err
	}

	if err := seedForum(db, userIDs[len(userIDs)-1], userIDs[0], log); err != nil {
		return err
	}

	return nil
}

func seedPlans(db *gorm.DB, log *logger.Logger) (map[models.PlanTier]string, error) {
	plans := []models.Plan{
		{Tier: models.PlanFree, Name: "Free", PriceCents: 0, MaxMembers: 1, MaxScheduledPosts: 5, MonthlyAICredits: 20, AIModel: "gpt-4o-mini", AIMaxTokens: 512, AITemperature: 0.7},
		{Tier: models.PlanStarter, Name: "Starter", PriceCents: 1900, MaxMembers: 3, MaxScheduledPosts: 50, MonthlyAICredits: 200, AIModel: "gpt-4o-mini", AIMaxTokens: 1024, AITemperature: 0.7},
		{Tier: models.PlanPro, Name: "Pro", PriceCents: 4900, MaxMembers: 10, MaxScheduledPosts: 250, MonthlyAICredits: 1000, AIModel: "gpt-4o", AIMaxTokens: 2048, AITemperature: 0.7},
		{Tier: models.PlanAgency, Name: "Agency", PriceCents: 14900, MaxMembers: 50, MaxScheduledPosts: 2000, MonthlyAICredits: 5000, AIModel: "claude-sonnet", AIMaxTokens: 4096, AITemperature: 0.5},
	}

	ids := make(map[models.PlanTier]string, len(plans))
	for i := range plans {
		plan := &plans[i]

		var existing models.Plan
		if err := db.Where("tier = ?", plan.Tier).First(&existing).Error; err == nil {
			ids[plan.Tier] = existing.ID
			continue
		}

		if err := plan.BeforeCreate(nil); err != nil {
			return nil, fmt.Errorf("failed to generate plan ID: %w", err)
		}
		if err := db.Create(plan).Error; err != nil {
			return nil, fmt.Errorf("failed to create plan %s: %w", plan.Tier, err)
		}
		log.Info("Created plan: %s", plan.Name)
		ids[plan.Tier] = plan.ID
	}
	return ids, nil
}

func seedOrganization(db *gorm.DB, userIDs []string, planID string, log *logger.Logger) (string, error) {
	var existing models.Organization
	if err := db.Where("slug = ?", "demo-agency").First(&existing).Error; err == nil {
		log.Info("Organization demo-agency already exists, skipping")
		return existing.ID, nil
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	org := &models.Organization{
		Name:               "Demo Agency",
		Slug:               "demo-agency",
		OwnerID:            userIDs[0],
		PlanID:             planID,
		SubscriptionStatus: models.SubscriptionActive,
		CurrentPeriodEnd:   &periodEnd,
	}
	if err := org.BeforeCreate(nil); err != nil {
		return "", fmt.Errorf("failed to generate org ID: %w", err)
	}
	if err := db.Create(org).Error; err != nil {
		return "", fmt.Errorf("failed to create organization: %w", err)
	}
	log.Info("Created organization: %s", org.Name)

	memberRoles := []roles.Role{roles.RoleOwner, roles.RoleEditor, roles.RoleViewer}
	for i, userID := range userIDs[:3] {
		member := &models.OrganizationMember{
			OrgID:  org.ID,
			UserID: userID,
			Role:   string(memberRoles[i]),
		}
		if err := member.BeforeCreate(nil); err != nil {
			return "", fmt.Errorf("failed to generate member ID: %w", err)
		}
		if err := db.Create(member).Error; err != nil {
			log.Error("Failed to create member: %v", err)
		}
	}
	log.Info("Created organization members")

	return org.ID, nil
}

func seedPosts(db *gorm.DB, s3Client *s3.Client, orgID, authorID string, log *logger.Logger) error {
	var count int64
	db.Model(&models.Post{}).Where("org_id = ?", orgID).Count(&count)
	if count > 0 {
		log.Info("Posts already seeded, skipping")
		return nil
	}

	asset, err := seedMediaAsset(db, s3Client, orgID, authorID, log)
	if err != nil {
		log.Error("Failed to seed media asset: %v (continuing without media)", err)
	}

	in2h := time.Now().Add(2 * time.Hour)
	nextWeek := time.Now().AddDate(0, 0, 7)

	posts := []models.Post{
		{
			OrgID:    orgID,
			AuthorID: authorID,
			Body:     "Drafting our product launch announcement. Feedback welcome!",
			Platform: "twitter",
			Hashtags: pq.StringArray{"#launch", "#demoagency"},
			Status:   models.PostStatusDraft,
		},
		{
			OrgID:        orgID,
			AuthorID:     authorID,
			Body:         "We ship in two hours. Stay tuned!",
			Platform:     "twitter",
			Hashtags:     pq.StringArray{"#demoagency"},
			Status:       models.PostStatusScheduled,
			ScheduledFor: &in2h,
		},
		{
			OrgID:        orgID,
			AuthorID:     authorID,
			Body:         "A longer look at how we plan a content calendar for our clients.",
			Platform:     "linkedin",
			Hashtags:     pq.StringArray{"#contentmarketing", "#demoagency"},
			Status:       models.PostStatusScheduled,
			ScheduledFor: &nextWeek,
		},
	}

	for i := range posts {
		post := &posts[i]
		if asset != nil {
			post.MediaAssetIDs = pq.StringArray{asset.ID}
		}
		if err := post.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate post ID: %w", err)
		}
		if err := db.Create(post).Error; err != nil {
			log.Error("Failed to create post: %v", err)
			continue
		}
		log.Info("Created %s post on %s", post.Status, post.Platform)
	}
	return nil
}

func seedMediaAsset(db *gorm.DB, s3Client *s3.Client, orgID, uploaderID string, log *logger.Logger) (*models.MediaAsset, error) {
	// A 1x1 transparent PNG keeps the seed self-contained.
	pixel := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}

	key := fmt.Sprintf("media/%s/seed_pixel.png", orgID)
	url, err := s3Client.UploadFile(key, bytes.NewReader(pixel), "image/png")
	if err != nil {
		return nil, err
	}
	log.Info("Uploaded seed media to %s", url)

	asset := &models.MediaAsset{
		OrgID:       orgID,
		UploaderID:  uploaderID,
		FileName:    "seed_pixel.png",
		ContentType: "image/png",
		SizeBytes:   int64(len(pixel)),
		S3Key:       key,
		URL:         url,
	}
	if err := asset.BeforeCreate(nil); err != nil {
		return nil, fmt.Errorf("failed to generate asset ID: %w", err)
	}
	if err := db.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create media asset: %w", err)
	}
	return asset, nil
}

func seedForum(db *gorm.DB, staffID, memberID string, log *logger.Logger) error {
	categories := []models.ForumCategory{
		{Name: "Announcements", Slug: "announcements", Description: "Product news from the team"},
		{Name: "Tips & Tricks", Slug: "tips-tricks", Description: "Share workflows that save you time"},
		{Name: "Feature Requests", Slug: "feature-requests", Description: "Discuss what you want built next"},
	}

	var announcementsID string
	for i := range categories {
		category := &categories[i]

		var existing models.ForumCategory
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			if category.Slug == "announcements" {
				announcementsID = existing.ID
			}
			continue
		}

		if err := category.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate category ID: %w", err)
		}
		if err := db.Create(category).Error; err != nil {
			log.Error("Failed to create forum category: %v", err)
			continue
		}
		log.Info("Created forum category: %s", category.Name)
		if category.Slug == "announcements" {
			announcementsID = category.ID
		}
	}

	if announcementsID == "" {
		return nil
	}

	var count int64
	db.Model(&models.ForumPost{}).Where("category_id = ?", announcementsID).Count(&count)
	if count > 0 {
		return nil
	}

	post := &models.ForumPost{
		CategoryID: announcementsID,
		AuthorID:   staffID,
		Title:      "Welcome to the Postdeck community",
		Body:       "Introduce yourself and tell us what you are building.",
		Pinned:     true,
	}
	if err := post.BeforeCreate(nil); err != nil {
		return fmt.Errorf("failed to generate forum post ID: %w", err)
	}
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create forum post: %w", err)
	}
	log.Info("Created welcome forum post")

	comment := &models.ForumComment{
		PostID:   post.ID,
		AuthorID: memberID,
		Body:     "We run a three-person agency and schedule everything on Mondays.",
	}
	if err := comment.BeforeCreate(nil); err != nil {
		return fmt.Errorf("failed to generate comment ID: %w", err)
	}
	if err := db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create forum comment: %w", err)
	}

	return nil
}

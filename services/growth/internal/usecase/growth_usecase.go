package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"postdeck/pkg/logger"
	"postdeck/services/growth/internal/entity"
	"postdeck/services/growth/internal/repo/persistent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrowthUseCase interface {
	CreateTestimonialRequest(orgID, customerName, customerEmail string) (*entity.TestimonialRequest, error)
	ListTestimonials(orgID string) ([]*entity.TestimonialRequest, error)
	SubmitTestimonial(token, text string, rating int) (*entity.TestimonialRequest, error)
	ApproveTestimonial(orgID, testimonialID string) (*entity.TestimonialRequest, error)

	CreateReferral(orgID, referredEmail string, rewardCents int) (*entity.ReferralRecord, error)
	ListReferrals(orgID string) ([]*entity.ReferralRecord, error)
	ConvertReferral(referralID string) (*entity.ReferralRecord, error)

	CreateRoadmapItem(title, body string) (*entity.RoadmapItem, error)
	ListRoadmap(userID string) ([]*entity.RoadmapItem, error)
	UpdateRoadmapStatus(itemID, status string) (*entity.RoadmapItem, error)
	ToggleVote(itemID, userID string) (bool, int, error)
}

type growthUseCase struct {
	growthRepo persistent.GrowthRepository
	logger     *logger.Logger
	now        func() time.Time
}

func NewGrowthUseCase(growthRepo persistent.GrowthRepository, logger *logger.Logger) GrowthUseCase {
	return &growthUseCase{
		growthRepo: growthRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTestimonialRequest issues a share token the customer submits
// against. Email delivery is out of scope; the token is returned to the
// caller.
func (uc *growthUseCase) CreateTestimonialRequest(orgID, customerName, customerEmail string) (*entity.TestimonialRequest, error) {
	testimonial := &entity.TestimonialRequest{
		OrgID:         orgID,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		ShareToken:    uuid.New().String(),
		Status:        entity.TestimonialPending,
	}
	if err := uc.growthRepo.CreateTestimonial(testimonial); err != nil {
		uc.logger.Error("Failed to create testimonial request: %v", err)
		return nil, fmt.Errorf("failed to create testimonial request")
	}
	return testimonial, nil
}

func (uc *growthUseCase) ListTestimonials(orgID string) ([]*entity.TestimonialRequest, error) {
	testimonials, err := uc.growthRepo.ListTestimonials(orgID)
	if err != nil {
		uc.logger.Error("Failed to list testimonials: %v", err)
		return nil, fmt.Errorf("failed to list testimonials")
	}
	return testimonials, nil
}

// SubmitTestimonial is the public, token-authenticated path a customer
// uses. A token submits once.
func (uc *growthUseCase) SubmitTestimonial(token, text string, rating int) (*entity.TestimonialRequest, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	testimonial, err := uc.growthRepo.GetTestimonialByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid share token")
		}
		uc.logger.Error("Failed to look up share token: %v", err)
		return nil, fmt.Errorf("failed to submit testimonial")
	}
	if testimonial.Status != entity.TestimonialPending {
		return nil, fmt.Errorf("testimonial already submitted")
	}

	submittedAt := uc.now()
	updates := map[string]interface{}{
		"text":         text,
		"rating":       rating,
		"status":       string(entity.TestimonialSubmitted),
		"submitted_at": submittedAt,
	}
	if err := uc.growthRepo.UpdateTestimonial(testimonial.ID, updates); err != nil {
		uc.logger.Error("Failed to submit testimonial: %v", err)
		return nil, fmt.Errorf("failed to submit testimonial")
	}

	testimonial.Text = text
	testimonial.Rating = rating
	testimonial.Status = entity.TestimonialSubmitted
	testimonial.SubmittedAt = &submittedAt
	return testimonial, nil
}

func (uc *growthUseCase) ApproveTestimonial(orgID, testimonialID string) (*entity.TestimonialRequest, error) {
	testimonial, err := uc.growthRepo.GetTestimonialByID(testimonialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("testimonial not found")
		}
		uc.logger.Error("Failed to get testimonial: %v", err)
		return nil, fmt.Errorf("failed to approve testimonial")
	}
	if testimonial.OrgID != orgID {
		return nil, fmt.Errorf("testimonial not found")
	}
	switch testimonial.Status {
	case entity.TestimonialPending:
		return nil, fmt.Errorf("testimonial not submitted yet")
	case entity.TestimonialApproved:
		return nil, fmt.Errorf("testimonial already approved")
	}

	if err := uc.growthRepo.UpdateTestimonial(testimonialID, map[string]interface{}{
		"status": string(entity.TestimonialApproved),
	}); err != nil {
		uc.logger.Error("Failed to approve testimonial: %v", err)
		return nil, fmt.Errorf("failed to approve testimonial")
	}

	testimonial.Status = entity.TestimonialApproved
	return testimonial, nil
}

func (uc *growthUseCase) CreateReferral(orgID, referredEmail string, rewardCents int) (*entity.ReferralRecord, error) {
	referral := &entity.ReferralRecord{
		OrgID:         orgID,
		Code:          newReferralCode(),
		ReferredEmail: referredEmail,
		Status:        entity.ReferralPending,
		RewardCents:   rewardCents,
	}
	if err := uc.growthRepo.CreateReferral(referral); err != nil {
		uc.logger.Error("Failed to create referral: %v", err)
		return nil, fmt.Errorf("failed to create referral")
	}
	return referral, nil
}

func (uc *growthUseCase) ListReferrals(orgID string) ([]*entity.ReferralRecord, error) {
	referrals, err := uc.growthRepo.ListReferrals(orgID)
	if err != nil {
		uc.logger.Error("Failed to list referrals: %v", err)
		return nil, fmt.Errorf("failed to list referrals")
	}
	return referrals, nil
}

// ConvertReferral marks the reward as earned. Converted is terminal.
func (uc *growthUseCase) ConvertReferral(referralID string) (*entity.ReferralRecord, error) {
	referral, err := uc.growthRepo.GetReferralByID(referralID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral not found")
		}
		uc.logger.Error("Failed to get referral: %v", err)
		return nil, fmt.Errorf("failed to convert referral")
	}
	if referral.Status == entity.ReferralConverted {
		return nil, fmt.Errorf("referral already converted")
	}

	if err := uc.growthRepo.UpdateReferral(referralID, map[string]interface{}{
		"status": string(entity.ReferralConverted),
	}); err != nil {
		uc.logger.Error("Failed to convert referral: %v", err)
		return nil, fmt.Errorf("failed to convert referral")
	}

	referral.Status = entity.ReferralConverted
	return referral, nil
}

func (uc *growthUseCase) CreateRoadmapItem(title, body string) (*entity.RoadmapItem, error) {
	item := &entity.RoadmapItem{
		Title:  title,
		Body:   body,
		Status: entity.RoadmapProposed,
	}
	if err := uc.growthRepo.CreateRoadmapItem(item); err != nil {
		uc.logger.Error("Failed to create roadmap item: %v", err)
		return nil, fmt.Errorf("failed to create roadmap item")
	}
	return item, nil
}

// ListRoadmap returns every item with its vote total and whether the
// caller has voted, most voted first.
func (uc *growthUseCase) ListRoadmap(userID string) ([]*entity.RoadmapItem, error) {
	items, err := uc.growthRepo.ListRoadmapItems()
	if err != nil {
		uc.logger.Error("Failed to list roadmap items: %v", err)
		return nil, fmt.Errorf("failed to list roadmap")
	}

	counts, err := uc.growthRepo.VoteCounts()
	if err != nil {
		uc.logger.Error("Failed to count votes: %v", err)
		return nil, fmt.Errorf("failed to list roadmap")
	}

	votedIDs, err := uc.growthRepo.ListVotedItemIDs(userID)
	if err != nil {
		uc.logger.Error("Failed to list votes: %v", err)
		return nil, fmt.Errorf("failed to list roadmap")
	}
	voted := make(map[string]bool, len(votedIDs))
	for _, id := range votedIDs {
		voted[id] = true
	}

	for _, item := range items {
		item.Votes = counts[item.ID]
		item.Voted = voted[item.ID]
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Votes > items[j].Votes
	})
	return items, nil
}

func (uc *growthUseCase) UpdateRoadmapStatus(itemID, status string) (*entity.RoadmapItem, error) {
	if !validRoadmapStatus(status) {
		return nil, fmt.Errorf("invalid status")
	}

	item, err := uc.growthRepo.GetRoadmapItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("roadmap item not found")
		}
		uc.logger.Error("Failed to get roadmap item: %v", err)
		return nil, fmt.Errorf("failed to update roadmap item")
	}

	if err := uc.growthRepo.UpdateRoadmapItem(itemID, map[string]interface{}{"status": status}); err != nil {
		uc.logger.Error("Failed to update roadmap item: %v", err)
		return nil, fmt.Errorf("failed to update roadmap item")
	}

	item.Status = entity.RoadmapStatus(status)
	return item, nil
}

// ToggleVote adds or removes the caller's vote and returns the new state
// with the fresh total.
func (uc *growthUseCase) ToggleVote(itemID, userID string) (bool, int, error) {
	if _, err := uc.growthRepo.GetRoadmapItemByID(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("roadmap item not found")
		}
		uc.logger.Error("Failed to get roadmap item: %v", err)
		return false, 0, fmt.Errorf("failed to vote")
	}

	hasVoted, err := uc.growthRepo.HasVoted(itemID, userID)
	if err != nil {
		uc.logger.Error("Failed to check vote: %v", err)
		return false, 0, fmt.Errorf("failed to vote")
	}

	if hasVoted {
		if err := uc.growthRepo.DeleteVote(itemID, userID); err != nil {
			uc.logger.Error("Failed to remove vote: %v", err)
			return false, 0, fmt.Errorf("failed to vote")
		}
	} else {
		if err := uc.growthRepo.CreateVote(itemID, userID); err != nil {
			uc.logger.Error("Failed to create vote: %v", err)
			return false, 0, fmt.Errorf("failed to vote")
		}
	}

	total, err := uc.growthRepo.CountVotes(itemID)
	if err != nil {
		uc.logger.Error("Failed to count votes: %v", err)
		return false, 0, fmt.Errorf("failed to vote")
	}
	return !hasVoted, total, nil
}

func validRoadmapStatus(status string) bool {
	switch entity.RoadmapStatus(status) {
	case entity.RoadmapProposed, entity.RoadmapPlanned, entity.RoadmapInProgress, entity.RoadmapShipped:
		return true
	}
	return false
}

// newReferralCode returns a short shareable code.
func newReferralCode() string {
	return strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
}

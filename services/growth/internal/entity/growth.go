package entity

import "time"

type TestimonialStatus string

const (
	TestimonialPending   TestimonialStatus = "pending"
	TestimonialSubmitted TestimonialStatus = "submitted"
	TestimonialApproved  TestimonialStatus = "approved"
)

type TestimonialRequest struct {
	ID            string            `json:"id"`
	OrgID         string            `json:"org_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	ShareToken    string            `json:"share_token"`
	Status        TestimonialStatus `json:"status"`
	Text          string            `json:"text,omitempty"`
	Rating        int               `json:"rating,omitempty"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralSignedUp  ReferralStatus = "signed_up"
	ReferralConverted ReferralStatus = "converted"
)

type ReferralRecord struct {
	ID            string         `json:"id"`
	OrgID         string         `json:"org_id"`
	Code          string         `json:"code"`
	ReferredEmail string         `json:"referred_email"`
	Status        ReferralStatus `json:"status"`
	RewardCents   int            `json:"reward_cents"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type RoadmapStatus string

const (
	RoadmapProposed   RoadmapStatus = "proposed"
	RoadmapPlanned    RoadmapStatus = "planned"
	RoadmapInProgress RoadmapStatus = "in_progress"
	RoadmapShipped    RoadmapStatus = "shipped"
)

type RoadmapItem struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Status    RoadmapStatus `json:"status"`
	Votes     int           `json:"votes"`
	Voted     bool          `json:"voted"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

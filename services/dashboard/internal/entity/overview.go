package entity

import "time"

// PostCounts breaks an org's posts down by lifecycle status.
type PostCounts struct {
	Draft     int64 `json:"draft"`
	Scheduled int64 `json:"scheduled"`
	Published int64 `json:"published"`
	Failed    int64 `json:"failed"`
}

// UpcomingPost is one scheduled post inside the overview lookahead window.
type UpcomingPost struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	Excerpt      string    `json:"excerpt"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// ForumActivity counts recent community posts and comments. The forum is
// product-wide, so these numbers are not org-scoped.
type ForumActivity struct {
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// Overview is the assembled dashboard aggregate for one organization.
type Overview struct {
	OrgID       string          `json:"org_id"`
	Posts       PostCounts      `json:"posts"`
	Upcoming    []*UpcomingPost `json:"upcoming"`
	MemberCount int64           `json:"member_count"`
	OpenTickets int64           `json:"open_tickets"`
	Forum       ForumActivity   `json:"forum"`
	AIRequests  int             `json:"ai_requests_this_month"`
	GeneratedAt time.Time       `json:"generated_at"`
}

package model

import "time"

// Billing's view of the shared organizations table. The team service owns
// the row; billing only writes the subscription columns.
type OrganizationModel struct {
	ID                     string     `gorm:"type:uuid;primary_key" json:"id"`
	Name                   string     `json:"name"`
	Slug                   string     `json:"slug"`
	OwnerID                string     `gorm:"type:uuid" json:"owner_id"`
	PlanID                 string     `gorm:"type:uuid" json:"plan_id"`
	SubscriptionStatus     string     `gorm:"type:varchar(20)" json:"subscription_status"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end"`
	BillingCustomerRef     string     `json:"billing_customer_ref"`
	BillingSubscriptionRef string     `json:"billing_subscription_ref"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

type MemberModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string    `gorm:"type:uuid" json:"org_id"`
	UserID    string    `gorm:"type:uuid" json:"user_id"`
	Role      string    `gorm:"type:varchar(20)" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (MemberModel) TableName() string {
	return "organization_members"
}

package model

import "time"

// Read-only copies of the team service's tables, needed to resolve the
// caller's role on org-scoped routes.
type OrganizationModel struct {
	ID      string `gorm:"type:uuid;primary_key" json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID string `gorm:"type:uuid" json:"owner_id"`
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

package entity

import "time"

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

type Post struct {
	ID             string     `json:"id"`
	OrgID          string     `json:"org_id"`
	AuthorID       string     `json:"author_id"`
	Body           string     `json:"body"`
	Platform       string     `json:"platform"`
	Hashtags       []string   `json:"hashtags"`
	MediaAssetIDs  []string   `json:"media_asset_ids"`
	Status         PostStatus `json:"status"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	PublishedAt    *time.Time `json:"published_at"`
	PlatformPostID string     `json:"platform_post_id"`
	ErrorMessage   string     `json:"error_message"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type MediaAsset struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	UploaderID  string    `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Key       string    `json:"-"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

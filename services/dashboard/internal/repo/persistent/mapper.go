package persistent

import (
	"postdeck/pkg/models"
	"postdeck/services/dashboard/internal/entity"
)

// excerptRunes bounds the body snippet shown on the overview card.
const excerptRunes = 140

func ToUpcomingPost(post *models.Post) *entity.UpcomingPost {
	upcoming := &entity.UpcomingPost{
		ID:       post.ID,
		Platform: post.Platform,
		Excerpt:  excerpt(post.Body),
	}
	if post.ScheduledFor != nil {
		upcoming.ScheduledFor = *post.ScheduledFor
	}
	return upcoming
}

func excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptRunes {
		return body
	}
	return string(runes[:excerptRunes]) + "..."
}

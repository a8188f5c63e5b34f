package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"postdeck/pkg/logger"
	"postdeck/services/assistant/internal/entity"
	"postdeck/services/assistant/internal/provider"
	"postdeck/services/assistant/internal/repo/persistent"
)

// Fallbacks for organizations without a plan row or with blank AI columns.
const (
	defaultModel          = "gpt-4o-mini"
	defaultMaxTokens      = 512
	defaultTemperature    = 0.7
	defaultMonthlyCredits = 20
)

const maxIdeas = 10

// ProviderResolver picks a completion provider per model name. Satisfied
// by provider.Resolver.
type ProviderResolver interface {
	ForModel(model string) provider.Provider
	Embedder() provider.Embedder
}

type AssistantUseCase interface {
	Generate(ctx context.Context, orgID, prompt, tone, platformName string, hashtags []string) (string, error)
	Ideas(ctx context.Context, orgID, topic string, count int) ([]string, error)
	Usage(orgID string) (*entity.UsageReport, error)

	Chat(ctx context.Context, userID, sessionID, question string) (*entity.ChatAnswer, error)

	CreateDocument(ctx context.Context, title, source, content string) (*entity.Document, error)
	ListDocuments() ([]*entity.Document, error)
	GetDocument(id string) (*entity.Document, error)
	DeleteDocument(id string) error
}

type assistantUseCase struct {
	repo        persistent.AssistantRepository
	providers   ProviderResolver
	redisClient *redis.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewAssistantUseCase(
	repo persistent.AssistantRepository,
	providers ProviderResolver,
	redisClient *redis.Client,
	logger *logger.Logger,
) AssistantUseCase {
	return &assistantUseCase{
		repo:        repo,
		providers:   providers,
		redisClient: redisClient,
		logger:      logger,
		now:         time.Now,
	}
}

// resolvePlan loads the org's AI settings, filling blanks with the free
// defaults. A missing plan row also falls back to the defaults.
func (uc *assistantUseCase) resolvePlan(orgID string) entity.PlanAIConfig {
	resolved := entity.PlanAIConfig{
		Tier:             "free",
		AIModel:          defaultModel,
		AIMaxTokens:      defaultMaxTokens,
		AITemperature:    defaultTemperature,
		MonthlyAICredits: defaultMonthlyCredits,
	}

	plan, err := uc.repo.GetOrgPlan(orgID)
	if err != nil || plan == nil {
		return resolved
	}

	resolved.Tier = plan.Tier
	if plan.AIModel != "" {
		resolved.AIModel = plan.AIModel
	}
	if plan.AIMaxTokens > 0 {
		resolved.AIMaxTokens = plan.AIMaxTokens
	}
	if plan.AITemperature > 0 {
		resolved.AITemperature = plan.AITemperature
	}
	// Zero credits on a real plan means unlimited.
	resolved.MonthlyAICredits = plan.MonthlyAICredits
	return resolved
}

func (uc *assistantUseCase) monthKey() string {
	return uc.now().UTC().Format("2006-01")
}

func (uc *assistantUseCase) checkQuota(orgID string, plan entity.PlanAIConfig) error {
	if plan.MonthlyAICredits <= 0 {
		return nil
	}

	used, err := uc.repo.UsageCount(orgID, uc.monthKey())
	if err != nil {
		uc.logger.Error("Failed to read AI usage for org %s: %v", orgID, err)
		return fmt.Errorf("failed to check AI usage")
	}
	if used >= plan.MonthlyAICredits {
		return fmt.Errorf("monthly AI credit limit reached")
	}
	return nil
}

func (uc *assistantUseCase) recordUsage(orgID string) {
	if err := uc.repo.IncrementUsage(orgID, uc.monthKey()); err != nil {
		uc.logger.Warn("Failed to record AI usage for org %s: %v", orgID, err)
	}
}

func (uc *assistantUseCase) Generate(ctx context.Context, orgID, prompt, tone, platformName string, hashtags []string) (string, error) {
	plan := uc.resolvePlan(orgID)
	if err := uc.checkQuota(orgID, plan); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Write a social media post about: ")
	sb.WriteString(prompt)
	if platformName != "" {
		sb.WriteString("\nPlatform: ")
		sb.WriteString(platformName)
	}
	if tone != "" {
		sb.WriteString("\nTone: ")
		sb.WriteString(tone)
	}

	text, err := uc.providers.ForModel(plan.AIModel).Complete(ctx, provider.CompletionRequest{
		Model:       plan.AIModel,
		System:      "You write social media posts for a marketing team. Reply with the post text only, no preamble.",
		Prompt:      sb.String(),
		MaxTokens:   plan.AIMaxTokens,
		Temperature: plan.AITemperature,
	})
	if err != nil {
		uc.logger.Error("Generation failed for org %s: %v", orgID, err)
		return "", fmt.Errorf("failed to generate content")
	}

	uc.recordUsage(orgID)
	return appendHashtags(strings.TrimSpace(text), hashtags), nil
}

func (uc *assistantUseCase) Ideas(ctx context.Context, orgID, topic string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}
	if count > maxIdeas {
		count = maxIdeas
	}

	plan := uc.resolvePlan(orgID)
	if err := uc.checkQuota(orgID, plan); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Give me %d distinct social media post ideas about: %s\nOne idea per line, no numbering.", count, topic)

	text, err := uc.providers.ForModel(plan.AIModel).Complete(ctx, provider.CompletionRequest{
		Model:       plan.AIModel,
		System:      "You brainstorm social media content for a marketing team.",
		Prompt:      prompt,
		MaxTokens:   plan.AIMaxTokens,
		Temperature: plan.AITemperature,
	})
	if err != nil {
		uc.logger.Error("Idea generation failed for org %s: %v", orgID, err)
		return nil, fmt.Errorf("failed to generate ideas")
	}

	ideas := parseIdeas(text, count)
	if len(ideas) == 0 {
		return nil, fmt.Errorf("failed to generate ideas")
	}

	uc.recordUsage(orgID)
	return ideas, nil
}

func (uc *assistantUseCase) Usage(orgID string) (*entity.UsageReport, error) {
	month := uc.monthKey()
	used, err := uc.repo.UsageCount(orgID, month)
	if err != nil {
		uc.logger.Error("Failed to read AI usage for org %s: %v", orgID, err)
		return nil, fmt.Errorf("failed to read AI usage")
	}

	return &entity.UsageReport{
		Month: month,
		Used:  used,
		Limit: uc.resolvePlan(orgID).MonthlyAICredits,
	}, nil
}

// parseIdeas splits a model reply into one idea per line, tolerating the
// numbering and bullet markers models add despite instructions.
func parseIdeas(text string, max int) []string {
	var ideas []string
	for _, line := range strings.Split(text, "\n") {
		idea := stripListMarker(line)
		if idea == "" {
			continue
		}
		ideas = append(ideas, idea)
		if len(ideas) == max {
			break
		}
	}
	return ideas
}

func stripListMarker(line string) string {
	s := strings.TrimSpace(line)

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		s = s[digits+1:]
	} else if s != "" && (s[0] == '-' || s[0] == '*') {
		s = s[1:]
	}

	return strings.TrimSpace(s)
}

// appendHashtags applies the same hashtag rules as the content service's
// branding package, kept local because that package is internal to content:
// normalize to #lowercase, skip tags already present in the body, append
// the rest on a separate line. Applying the same tags twice is a no-op.
func appendHashtags(body string, tags []string) string {
	present := make(map[string]bool)
	for _, word := range strings.Fields(body) {
		if strings.HasPrefix(word, "#") {
			present[strings.ToLower(strings.TrimRight(word, ".,!?:;"))] = true
		}
	}

	var missing []string
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		t = strings.TrimPrefix(t, "#")
		t = strings.ToLower(t)
		if t == "" {
			continue
		}
		normalized := "#" + t
		if present[normalized] {
			continue
		}
		present[normalized] = true
		missing = append(missing, normalized)
	}

	if len(missing) == 0 {
		return body
	}

	trimmed := strings.TrimRight(body, " \t\n")
	if trimmed == "" {
		return strings.Join(missing, " ")
	}
	return trimmed + "\n\n" + strings.Join(missing, " ")
}

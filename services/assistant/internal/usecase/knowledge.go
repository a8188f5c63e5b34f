package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"postdeck/services/assistant/internal/chunking"
	"postdeck/services/assistant/internal/entity"
	"postdeck/services/assistant/internal/provider"
)

const (
	chatModel     = "gpt-4o-mini"
	chatMaxTokens = 512
	chatTopK      = 4

	sessionHistoryDepth = 20
	sessionTTL          = 30 * time.Minute
)

func (uc *assistantUseCase) CreateDocument(ctx context.Context, title, source, content string) (*entity.Document, error) {
	pieces := chunking.Split(content, chunking.DefaultOptions())
	if len(pieces) == 0 {
		return nil, fmt.Errorf("document has no content")
	}

	// Embed everything before touching the store so a provider failure
	// never leaves a document with half its chunks searchable.
	embedder := uc.providers.Embedder()
	chunks := make([]*entity.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		vector, err := embedder.Embed(ctx, piece.Text)
		if err != nil {
			uc.logger.Error("Failed to embed chunk %d of %q: %v", i, title, err)
			return nil, fmt.Errorf("failed to embed document")
		}
		chunks[i] = &entity.DocumentChunk{
			ChunkIndex: piece.Index,
			Content:    piece.Text,
			TokenCount: (len(piece.Text) + 3) / 4,
			Embedding:  vector,
		}
	}

	doc := &entity.Document{
		Title:  title,
		Source: source,
	}
	if err := uc.repo.CreateDocument(doc, chunks); err != nil {
		uc.logger.Error("Failed to store document %q: %v", title, err)
		return nil, fmt.Errorf("failed to store document")
	}

	return doc, nil
}

func (uc *assistantUseCase) ListDocuments() ([]*entity.Document, error) {
	return uc.repo.ListDocuments()
}

func (uc *assistantUseCase) GetDocument(id string) (*entity.Document, error) {
	doc, err := uc.repo.GetDocumentByID(id)
	if err != nil {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

func (uc *assistantUseCase) DeleteDocument(id string) error {
	if _, err := uc.GetDocument(id); err != nil {
		return err
	}

	if err := uc.repo.DeleteDocument(id); err != nil {
		uc.logger.Error("Failed to delete document %s: %v", id, err)
		return fmt.Errorf("failed to delete document")
	}
	return nil
}

func (uc *assistantUseCase) Chat(ctx context.Context, userID, sessionID, question string) (*entity.ChatAnswer, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	queryVector, err := uc.providers.Embedder().Embed(ctx, question)
	if err != nil {
		uc.logger.Error("Failed to embed chat question: %v", err)
		return nil, fmt.Errorf("failed to answer question")
	}

	matches, err := uc.rankChunks(queryVector)
	if err != nil {
		return nil, fmt.Errorf("failed to answer question")
	}

	sessionKey := fmt.Sprintf("assistant:chat:%s:%s", userID, sessionID)
	history := uc.loadHistory(ctx, sessionKey)

	answer, err := uc.providers.ForModel(chatModel).Complete(ctx, provider.CompletionRequest{
		Model:     chatModel,
		System:    "You are the product support assistant. Answer from the documentation context provided. If the context does not cover the question, say you do not know.",
		Prompt:    buildChatPrompt(matches, history, question),
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		uc.logger.Error("Chat completion failed: %v", err)
		return nil, fmt.Errorf("failed to answer question")
	}
	answer = strings.TrimSpace(answer)

	uc.saveHistory(ctx, sessionKey, question, answer)

	return &entity.ChatAnswer{
		SessionID: sessionID,
		Answer:    answer,
		Sources:   uc.chunkSources(matches),
	}, nil
}

// rankChunks scores every stored chunk against the query vector and keeps
// the best few. Chunks without embeddings are skipped.
func (uc *assistantUseCase) rankChunks(queryVector []float64) ([]*entity.DocumentChunk, error) {
	chunks, err := uc.repo.ListChunks()
	if err != nil {
		uc.logger.Error("Failed to load knowledge base chunks: %v", err)
		return nil, err
	}

	type scored struct {
		chunk *entity.DocumentChunk
		score float64
	}

	var candidates []scored
	for _, chunk := range chunks {
		score := cosineSimilarity(queryVector, chunk.Embedding)
		if score > 0 {
			candidates = append(candidates, scored{chunk: chunk, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > chatTopK {
		candidates = candidates[:chatTopK]
	}

	matches := make([]*entity.DocumentChunk, len(candidates))
	for i, c := range candidates {
		matches[i] = c.chunk
	}
	return matches, nil
}

func (uc *assistantUseCase) chunkSources(matches []*entity.DocumentChunk) []entity.ChatSource {
	if len(matches) == 0 {
		return nil
	}

	titles := make(map[string]string)
	if docs, err := uc.repo.ListDocuments(); err == nil {
		for _, doc := range docs {
			titles[doc.ID] = doc.Title
		}
	} else {
		uc.logger.Warn("Failed to resolve source titles: %v", err)
	}

	seen := make(map[string]bool)
	sources := make([]entity.ChatSource, 0, len(matches))
	for _, chunk := range matches {
		if seen[chunk.DocumentID] {
			continue
		}
		seen[chunk.DocumentID] = true
		sources = append(sources, entity.ChatSource{
			DocumentID: chunk.DocumentID,
			Title:      titles[chunk.DocumentID],
		})
	}
	return sources
}

func buildChatPrompt(matches []*entity.DocumentChunk, history []string, question string) string {
	var sb strings.Builder

	if len(matches) > 0 {
		sb.WriteString("Documentation context:\n")
		for i, chunk := range matches {
			if i > 0 {
				sb.WriteString("\n---\n")
			}
			sb.WriteString(chunk.Content)
		}
		sb.WriteString("\n\n")
	}

	if len(history) > 0 {
		sb.WriteString("Previous conversation:\n")
		for _, line := range history {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

// Session history lives in redis and is best effort. Chat still works when
// redis is down, it just loses memory of the conversation.
func (uc *assistantUseCase) loadHistory(ctx context.Context, key string) []string {
	if uc.redisClient == nil {
		return nil
	}

	lines, err := uc.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		uc.logger.Warn("Failed to load chat history %s: %v", key, err)
		return nil
	}
	return lines
}

func (uc *assistantUseCase) saveHistory(ctx context.Context, key, question, answer string) {
	if uc.redisClient == nil {
		return
	}

	if err := uc.redisClient.RPush(ctx, key, "user: "+question, "assistant: "+answer).Err(); err != nil {
		uc.logger.Warn("Failed to save chat history %s: %v", key, err)
		return
	}
	uc.redisClient.LTrim(ctx, key, -sessionHistoryDepth, -1)
	uc.redisClient.Expire(ctx, key, sessionTTL)
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

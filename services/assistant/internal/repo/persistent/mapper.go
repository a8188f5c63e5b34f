package persistent

import (
	"encoding/json"

	"postdeck/services/assistant/internal/entity"
	"postdeck/services/assistant/internal/model"
)

func ToDocumentEntity(m *model.DocumentModel) *entity.Document {
	if m == nil {
		return nil
	}

	return &entity.Document{
		ID:         m.ID,
		Title:      m.Title,
		Source:     m.Source,
		ChunkCount: m.ChunkCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToDocumentModel(e *entity.Document) *model.DocumentModel {
	if e == nil {
		return nil
	}

	return &model.DocumentModel{
		ID:         e.ID,
		Title:      e.Title,
		Source:     e.Source,
		ChunkCount: e.ChunkCount,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// Embeddings live in a jsonb column. A chunk stored before its embedding
// call succeeded has an empty column and maps to a nil vector.
func ToChunkEntity(m *model.DocumentChunkModel) *entity.DocumentChunk {
	if m == nil {
		return nil
	}

	var embedding []float64
	if m.Embedding != "" {
		if err := json.Unmarshal([]byte(m.Embedding), &embedding); err != nil {
			embedding = nil
		}
	}

	return &entity.DocumentChunk{
		ID:         m.ID,
		DocumentID: m.DocumentID,
		ChunkIndex: m.ChunkIndex,
		Content:    m.Content,
		TokenCount: m.TokenCount,
		Embedding:  embedding,
		CreatedAt:  m.CreatedAt,
	}
}

func ToChunkModel(e *entity.DocumentChunk) *model.DocumentChunkModel {
	if e == nil {
		return nil
	}

	embedding := ""
	if len(e.Embedding) > 0 {
		if raw, err := json.Marshal(e.Embedding); err == nil {
			embedding = string(raw)
		}
	}

	return &model.DocumentChunkModel{
		ID:         e.ID,
		DocumentID: e.DocumentID,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		TokenCount: e.TokenCount,
		Embedding:  embedding,
		CreatedAt:  e.CreatedAt,
	}
}

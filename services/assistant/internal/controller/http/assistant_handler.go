package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/services/assistant/internal/usecase"
)

type AssistantHandler struct {
	assistantUseCase usecase.AssistantUseCase
	logger           *logger.Logger
}

func NewAssistantHandler(assistantUseCase usecase.AssistantUseCase, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantUseCase: assistantUseCase,
		logger:           logger,
	}
}

type GenerateRequest struct {
	Prompt   string   `json:"prompt" binding:"required"`
	Tone     string   `json:"tone"`
	Platform string   `json:"platform"`
	Hashtags []string `json:"hashtags"`
}

type IdeasRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count"`
}

type ChatRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Source  string `json:"source"`
	Content string `json:"content" binding:"required"`
}

// Generate godoc
// @Summary      Generate post content
// @Description  Generate a social media post suggestion using the organization's plan model
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body GenerateRequest true "Generation prompt"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/assistant/generate [post]
func (h *AssistantHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.assistantUseCase.Generate(c.Request.Context(), c.Param("org_id"), req.Prompt, req.Tone, req.Platform, req.Hashtags)
	if err != nil {
		if err.Error() == "monthly AI credit limit reached" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// Ideas godoc
// @Summary      Generate post ideas
// @Description  Generate a list of post ideas for a topic
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body IdeasRequest true "Topic"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/assistant/ideas [post]
func (h *AssistantHandler) Ideas(c *gin.Context) {
	var req IdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ideas, err := h.assistantUseCase.Ideas(c.Request.Context(), c.Param("org_id"), req.Topic, req.Count)
	if err != nil {
		if err.Error() == "monthly AI credit limit reached" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas": ideas,
		"count": len(ideas),
	})
}

// Usage godoc
// @Summary      AI usage
// @Description  This month's AI request usage against the organization's plan credits
// @Tags         assistant
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} entity.UsageReport
// @Router       /orgs/{org_id}/assistant/usage [get]
func (h *AssistantHandler) Usage(c *gin.Context) {
	report, err := h.assistantUseCase.Usage(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Chat godoc
// @Summary      Support chat
// @Description  Ask the knowledge-base chatbot a question. Omit session_id to start a new session.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChatRequest true "Question"
// @Success      200 {object} entity.ChatAnswer
// @Failure      400 {object} map[string]string
// @Router       /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.assistantUseCase.Chat(c.Request.Context(), c.GetString("user_id"), req.SessionID, req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}

// CreateDocument godoc
// @Summary      Ingest knowledge-base document
// @Description  Store a document, chunk it and embed the chunks for chat retrieval. Staff only.
// @Tags         knowledge-base
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateDocumentRequest true "Document"
// @Success      201 {object} entity.Document
// @Failure      400 {object} map[string]string
// @Router       /kb/documents [post]
func (h *AssistantHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.assistantUseCase.CreateDocument(c.Request.Context(), req.Title, req.Source, req.Content)
	if err != nil {
		if err.Error() == "document has no content" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments godoc
// @Summary      List knowledge-base documents
// @Description  List ingested documents. Staff only.
// @Tags         knowledge-base
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /kb/documents [get]
func (h *AssistantHandler) ListDocuments(c *gin.Context) {
	docs, err := h.assistantUseCase.ListDocuments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

// GetDocument godoc
// @Summary      Get knowledge-base document
// @Description  Get a single document by ID. Staff only.
// @Tags         knowledge-base
// @Produce      json
// @Security     BearerAuth
// @Param        document_id path string true "Document ID"
// @Success      200 {object} entity.Document
// @Failure      404 {object} map[string]string
// @Router       /kb/documents/{document_id} [get]
func (h *AssistantHandler) GetDocument(c *gin.Context) {
	doc, err := h.assistantUseCase.GetDocument(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocument godoc
// @Summary      Delete knowledge-base document
// @Description  Delete a document and its chunks. Staff only.
// @Tags         knowledge-base
// @Produce      json
// @Security     BearerAuth
// @Param        document_id path string true "Document ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /kb/documents/{document_id} [delete]
func (h *AssistantHandler) DeleteDocument(c *gin.Context) {
	if err := h.assistantUseCase.DeleteDocument(c.Param("document_id")); err != nil {
		if err.Error() == "document not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"postdeck/pkg/logger"
	"postdeck/services/assistant/internal/entity"
	"postdeck/services/assistant/internal/usecase"
)

type MockAssistantUseCase struct {
	mock.Mock
}

var _ usecase.AssistantUseCase = (*MockAssistantUseCase)(nil)

func (m *MockAssistantUseCase) Generate(ctx context.Context, orgID, prompt, tone, platformName string, hashtags []string) (string, error) {
	args := m.Called(ctx, orgID, prompt, tone, platformName, hashtags)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantUseCase) Ideas(ctx context.Context, orgID, topic string, count int) ([]string, error) {
	args := m.Called(ctx, orgID, topic, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAssistantUseCase) Usage(orgID string) (*entity.UsageReport, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UsageReport), args.Error(1)
}

func (m *MockAssistantUseCase) Chat(ctx context.Context, userID, sessionID, question string) (*entity.ChatAnswer, error) {
	args := m.Called(ctx, userID, sessionID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatAnswer), args.Error(1)
}

func (m *MockAssistantUseCase) CreateDocument(ctx context.Context, title, source, content string) (*entity.Document, error) {
	args := m.Called(ctx, title, source, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockAssistantUseCase) ListDocuments() ([]*entity.Document, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Document), args.Error(1)
}

func (m *MockAssistantUseCase) GetDocument(id string) (*entity.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockAssistantUseCase) DeleteDocument(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupTestRouter(mockUC *MockAssistantUseCase) (*gin.Engine, *AssistantHandler) {
	gin.SetMode(gin.TestMode)
	handler := NewAssistantHandler(mockUC, logger.New())
	r := gin.New()
	return r, handler
}

func TestGenerate_OK(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/orgs/:org_id/assistant/generate", handler.Generate)

	mockUC.On("Generate", mock.Anything, "org-1", "coffee launch", "playful", "twitter", []string{"launch"}).
		Return("Coffee time!\n\n#launch", nil)

	body, _ := json.Marshal(GenerateRequest{Prompt: "coffee launch", Tone: "playful", Platform: "twitter", Hashtags: []string{"launch"}})
	req := httptest.NewRequest("POST", "/orgs/org-1/assistant/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Coffee time!\n\n#launch", resp["suggestion"])
	mockUC.AssertExpectations(t)
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/orgs/:org_id/assistant/generate", handler.Generate)

	mockUC.On("Generate", mock.Anything, "org-1", "anything", "", "", []string(nil)).
		Return("", errors.New("monthly AI credit limit reached"))

	body, _ := json.Marshal(GenerateRequest{Prompt: "anything"})
	req := httptest.NewRequest("POST", "/orgs/org-1/assistant/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_MissingPrompt(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/orgs/:org_id/assistant/generate", handler.Generate)

	req := httptest.NewRequest("POST", "/orgs/org-1/assistant/generate", bytes.NewReader([]byte(`{"tone":"casual"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIdeas_OK(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/orgs/:org_id/assistant/ideas", handler.Ideas)

	mockUC.On("Ideas", mock.Anything, "org-1", "spring sale", 3).
		Return([]string{"idea one", "idea two", "idea three"}, nil)

	body, _ := json.Marshal(IdeasRequest{Topic: "spring sale", Count: 3})
	req := httptest.NewRequest("POST", "/orgs/org-1/assistant/ideas", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["count"])
}

func TestChat_PassesUserAndSession(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/assistant/chat", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Chat(c)
	})

	mockUC.On("Chat", mock.Anything, "user-1", "sess-9", "How do refunds work?").
		Return(&entity.ChatAnswer{
			SessionID: "sess-9",
			Answer:    "Within 5 days.",
			Sources:   []entity.ChatSource{{DocumentID: "doc-a", Title: "Billing FAQ"}},
		}, nil)

	body, _ := json.Marshal(ChatRequest{Question: "How do refunds work?", SessionID: "sess-9"})
	req := httptest.NewRequest("POST", "/assistant/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var answer entity.ChatAnswer
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, "sess-9", answer.SessionID)
	assert.Equal(t, "Billing FAQ", answer.Sources[0].Title)
	mockUC.AssertExpectations(t)
}

func TestCreateDocument_Created(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.POST("/kb/documents", handler.CreateDocument)

	mockUC.On("CreateDocument", mock.Anything, "Billing FAQ", "help-center", "Refunds are issued within 5 days.").
		Return(&entity.Document{ID: "doc-1", Title: "Billing FAQ", ChunkCount: 1}, nil)

	body, _ := json.Marshal(CreateDocumentRequest{Title: "Billing FAQ", Source: "help-center", Content: "Refunds are issued within 5 days."})
	req := httptest.NewRequest("POST", "/kb/documents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var doc entity.Document
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc.ID)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.DELETE("/kb/documents/:document_id", handler.DeleteDocument)

	mockUC.On("DeleteDocument", "missing").Return(errors.New("document not found"))

	req := httptest.NewRequest("DELETE", "/kb/documents/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsage_OK(t *testing.T) {
	mockUC := new(MockAssistantUseCase)
	r, handler := setupTestRouter(mockUC)

	r.GET("/orgs/:org_id/assistant/usage", handler.Usage)

	mockUC.On("Usage", "org-1").Return(&entity.UsageReport{Month: "2025-03", Used: 7, Limit: 100}, nil)

	req := httptest.NewRequest("GET", "/orgs/org-1/assistant/usage", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report entity.UsageReport
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 7, report.Used)
	assert.Equal(t, 100, report.Limit)
}

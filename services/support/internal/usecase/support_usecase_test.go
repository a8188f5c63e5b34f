package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"postdeck/pkg/logger"
	"postdeck/services/support/internal/entity"
	"postdeck/services/support/internal/repo/persistent"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateTicket(ticket *entity.SupportTicket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetTicketByID(id string) (*entity.SupportTicket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) ListTicketsByAuthor(authorID string) ([]*entity.SupportTicket, error) {
	args := m.Called(authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) ListQueue(statuses []string) ([]*entity.SupportTicket, error) {
	args := m.Called(statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) UpdateTicket(id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockTicketRepository) CreateReply(reply *entity.TicketReply) error {
	args := m.Called(reply)
	return args.Error(0)
}

func (m *MockTicketRepository) ListReplies(ticketID string) ([]*entity.TicketReply, error) {
	args := m.Called(ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TicketReply), args.Error(1)
}

var _ persistent.TicketRepository = (*MockTicketRepository)(nil)

func newTestUseCase(repo *MockTicketRepository) SupportUseCase {
	return NewSupportUseCase(repo, logger.New())
}

func TestCreateTicket_DefaultsToNormalPriority(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("CreateTicket", mock.MatchedBy(func(ticket *entity.SupportTicket) bool {
		return ticket.Priority == entity.PriorityNormal && ticket.Status == entity.TicketOpen
	})).Return(nil)

	uc := newTestUseCase(repo)
	ticket, err := uc.CreateTicket("user-1", "", "Scheduler stuck", "posts are not going out", "")

	assert.NoError(t, err)
	assert.Equal(t, entity.PriorityNormal, ticket.Priority)
	repo.AssertExpectations(t)
}

func TestCreateTicket_InvalidPriority(t *testing.T) {
	repo := new(MockTicketRepository)

	uc := newTestUseCase(repo)
	_, err := uc.CreateTicket("user-1", "", "subject", "body", "asap")

	assert.EqualError(t, err, "invalid priority")
	repo.AssertNotCalled(t, "CreateTicket", mock.Anything)
}

func TestGetTicket_HidesOtherAuthors(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
	}, nil)

	uc := newTestUseCase(repo)
	_, err := uc.GetTicket("ticket-1", "user-2", false)

	assert.EqualError(t, err, "ticket not found")
	repo.AssertNotCalled(t, "ListReplies", mock.Anything)
}

func TestGetTicket_StaffSeesConversation(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
	}, nil)
	repo.On("ListReplies", "ticket-1").Return([]*entity.TicketReply{
		{ID: "reply-1", Body: "looking into it", Staff: true},
	}, nil)

	uc := newTestUseCase(repo)
	ticket, err := uc.GetTicket("ticket-1", "staff-1", true)

	assert.NoError(t, err)
	assert.Len(t, ticket.Replies, 1)
}

func TestReply_StaffMovesOpenToPending(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketOpen,
	}, nil)
	repo.On("CreateReply", mock.MatchedBy(func(reply *entity.TicketReply) bool {
		return reply.Staff && reply.TicketID == "ticket-1"
	})).Return(nil)
	repo.On("UpdateTicket", "ticket-1", map[string]interface{}{"status": "pending"}).Return(nil)

	uc := newTestUseCase(repo)
	_, err := uc.Reply("ticket-1", "staff-1", true, "can you share the post id?")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReply_CustomerReopensResolvedTicket(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketResolved,
	}, nil)
	repo.On("CreateReply", mock.Anything).Return(nil)
	repo.On("UpdateTicket", "ticket-1", map[string]interface{}{"status": "open"}).Return(nil)

	uc := newTestUseCase(repo)
	_, err := uc.Reply("ticket-1", "user-1", false, "still broken for me")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReply_ClosedTicketRejected(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketClosed,
	}, nil)

	uc := newTestUseCase(repo)
	_, err := uc.Reply("ticket-1", "user-1", false, "hello?")

	assert.EqualError(t, err, "ticket is closed")
	repo.AssertNotCalled(t, "CreateReply", mock.Anything)
}

func TestSetStatus_CustomerCannotReopen(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketResolved,
	}, nil)

	uc := newTestUseCase(repo)
	_, err := uc.SetStatus("ticket-1", "user-1", false, "open")

	assert.EqualError(t, err, "not allowed to set this status")
	repo.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything)
}

func TestSetStatus_SameStatusConflict(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketOpen,
	}, nil)

	uc := newTestUseCase(repo)
	_, err := uc.SetStatus("ticket-1", "user-1", false, "open")

	assert.EqualError(t, err, "ticket already in this status")
}

func TestSetStatus_StaffReopensClosedTicket(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("GetTicketByID", "ticket-1").Return(&entity.SupportTicket{
		ID:       "ticket-1",
		AuthorID: "user-1",
		Status:   entity.TicketClosed,
	}, nil)
	repo.On("UpdateTicket", "ticket-1", map[string]interface{}{"status": "open"}).Return(nil)

	uc := newTestUseCase(repo)
	ticket, err := uc.SetStatus("ticket-1", "staff-1", true, "open")

	assert.NoError(t, err)
	assert.Equal(t, entity.TicketOpen, ticket.Status)
	repo.AssertExpectations(t)
}

func TestQueue_OnlyActiveTickets(t *testing.T) {
	repo := new(MockTicketRepository)
	repo.On("ListQueue", []string{"open", "pending"}).Return([]*entity.SupportTicket{
		{ID: "ticket-1", Priority: entity.PriorityUrgent},
	}, nil)

	uc := newTestUseCase(repo)
	tickets, err := uc.Queue()

	assert.NoError(t, err)
	assert.Len(t, tickets, 1)
	repo.AssertExpectations(t)
}

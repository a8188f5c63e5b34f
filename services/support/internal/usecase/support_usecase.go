package usecase

import (
	"errors"
	"fmt"

	"postdeck/pkg/logger"
	"postdeck/services/support/internal/entity"
	"postdeck/services/support/internal/repo/persistent"

	"gorm.io/gorm"
)

type SupportUseCase interface {
	CreateTicket(authorID, orgID, subject, body, priority string) (*entity.SupportTicket, error)
	ListTickets(authorID string) ([]*entity.SupportTicket, error)
	GetTicket(id, userID string, isStaff bool) (*entity.SupportTicket, error)
	Reply(ticketID, userID string, isStaff bool, body string) (*entity.TicketReply, error)
	SetStatus(ticketID, userID string, isStaff bool, status string) (*entity.SupportTicket, error)
	SetPriority(ticketID, priority string) (*entity.SupportTicket, error)
	Queue() ([]*entity.SupportTicket, error)
}

type supportUseCase struct {
	ticketRepo persistent.TicketRepository
	logger     *logger.Logger
}

func NewSupportUseCase(ticketRepo persistent.TicketRepository, logger *logger.Logger) SupportUseCase {
	return &supportUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *supportUseCase) CreateTicket(authorID, orgID, subject, body, priority string) (*entity.SupportTicket, error) {
	if priority == "" {
		priority = string(entity.PriorityNormal)
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("invalid priority")
	}

	ticket := &entity.SupportTicket{
		OrgID:    orgID,
		AuthorID: authorID,
		Subject:  subject,
		Body:     body,
		Status:   entity.TicketOpen,
		Priority: entity.TicketPriority(priority),
	}
	if err := uc.ticketRepo.CreateTicket(ticket); err != nil {
		uc.logger.Error("Failed to create ticket: %v", err)
		return nil, fmt.Errorf("failed to create ticket")
	}
	return ticket, nil
}

func (uc *supportUseCase) ListTickets(authorID string) ([]*entity.SupportTicket, error) {
	tickets, err := uc.ticketRepo.ListTicketsByAuthor(authorID)
	if err != nil {
		uc.logger.Error("Failed to list tickets: %v", err)
		return nil, fmt.Errorf("failed to list tickets")
	}
	return tickets, nil
}

// GetTicket returns the ticket with its conversation. Non-staff callers
// only see their own tickets.
func (uc *supportUseCase) GetTicket(id, userID string, isStaff bool) (*entity.SupportTicket, error) {
	ticket, err := uc.loadTicket(id, userID, isStaff)
	if err != nil {
		return nil, err
	}

	replies, err := uc.ticketRepo.ListReplies(id)
	if err != nil {
		uc.logger.Error("Failed to list replies: %v", err)
		return nil, fmt.Errorf("failed to get ticket")
	}
	ticket.Replies = replies
	return ticket, nil
}

// Reply appends to the conversation and flips the waiting side: a staff
// reply on an open ticket moves it to pending, a customer reply moves a
// pending or resolved ticket back to open.
func (uc *supportUseCase) Reply(ticketID, userID string, isStaff bool, body string) (*entity.TicketReply, error) {
	ticket, err := uc.loadTicket(ticketID, userID, isStaff)
	if err != nil {
		return nil, err
	}
	if ticket.Status == entity.TicketClosed {
		return nil, fmt.Errorf("ticket is closed")
	}

	reply := &entity.TicketReply{
		TicketID: ticketID,
		AuthorID: userID,
		Staff:    isStaff,
		Body:     body,
	}
	if err := uc.ticketRepo.CreateReply(reply); err != nil {
		uc.logger.Error("Failed to create reply: %v", err)
		return nil, fmt.Errorf("failed to reply")
	}

	next := nextStatusAfterReply(ticket.Status, isStaff)
	if next != ticket.Status {
		if err := uc.ticketRepo.UpdateTicket(ticketID, map[string]interface{}{"status": string(next)}); err != nil {
			uc.logger.Error("Failed to update ticket status: %v", err)
		}
	}
	return reply, nil
}

func (uc *supportUseCase) SetStatus(ticketID, userID string, isStaff bool, status string) (*entity.SupportTicket, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid status")
	}

	ticket, err := uc.loadTicket(ticketID, userID, isStaff)
	if err != nil {
		return nil, err
	}
	if ticket.Status == entity.TicketStatus(status) {
		return nil, fmt.Errorf("ticket already in this status")
	}

	// Customers only wrap up their own tickets; reopening and queue
	// states belong to staff.
	if !isStaff && status != string(entity.TicketResolved) && status != string(entity.TicketClosed) {
		return nil, fmt.Errorf("not allowed to set this status")
	}

	if err := uc.ticketRepo.UpdateTicket(ticketID, map[string]interface{}{"status": status}); err != nil {
		uc.logger.Error("Failed to update ticket status: %v", err)
		return nil, fmt.Errorf("failed to update ticket")
	}

	ticket.Status = entity.TicketStatus(status)
	return ticket, nil
}

func (uc *supportUseCase) SetPriority(ticketID, priority string) (*entity.SupportTicket, error) {
	if !validPriority(priority) {
		return nil, fmt.Errorf("invalid priority")
	}

	ticket, err := uc.ticketRepo.GetTicketByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket not found")
		}
		uc.logger.Error("Failed to get ticket: %v", err)
		return nil, fmt.Errorf("failed to update ticket")
	}

	if err := uc.ticketRepo.UpdateTicket(ticketID, map[string]interface{}{"priority": priority}); err != nil {
		uc.logger.Error("Failed to update ticket priority: %v", err)
		return nil, fmt.Errorf("failed to update ticket")
	}

	ticket.Priority = entity.TicketPriority(priority)
	return ticket, nil
}

// Queue is the staff work list: everything still in play, most urgent
// first.
func (uc *supportUseCase) Queue() ([]*entity.SupportTicket, error) {
	tickets, err := uc.ticketRepo.ListQueue([]string{
		string(entity.TicketOpen),
		string(entity.TicketPending),
	})
	if err != nil {
		uc.logger.Error("Failed to list queue: %v", err)
		return nil, fmt.Errorf("failed to list queue")
	}
	return tickets, nil
}

func (uc *supportUseCase) loadTicket(id, userID string, isStaff bool) (*entity.SupportTicket, error) {
	ticket, err := uc.ticketRepo.GetTicketByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket not found")
		}
		uc.logger.Error("Failed to get ticket: %v", err)
		return nil, fmt.Errorf("failed to get ticket")
	}
	if ticket.AuthorID != userID && !isStaff {
		return nil, fmt.Errorf("ticket not found")
	}
	return ticket, nil
}

func nextStatusAfterReply(current entity.TicketStatus, staffReply bool) entity.TicketStatus {
	if staffReply {
		if current == entity.TicketOpen {
			return entity.TicketPending
		}
		return current
	}
	if current == entity.TicketPending || current == entity.TicketResolved {
		return entity.TicketOpen
	}
	return current
}

func validStatus(status string) bool {
	switch entity.TicketStatus(status) {
	case entity.TicketOpen, entity.TicketPending, entity.TicketResolved, entity.TicketClosed:
		return true
	}
	return false
}

func validPriority(priority string) bool {
	switch entity.TicketPriority(priority) {
	case entity.PriorityLow, entity.PriorityNormal, entity.PriorityHigh, entity.PriorityUrgent:
		return true
	}
	return false
}

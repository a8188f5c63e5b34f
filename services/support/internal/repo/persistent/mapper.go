package persistent

import (
	"postdeck/services/support/internal/entity"
	"postdeck/services/support/internal/model"
)

func ToTicketEntity(m *model.TicketModel) *entity.SupportTicket {
	return &entity.SupportTicket{
		ID:        m.ID,
		OrgID:     m.OrgID,
		AuthorID:  m.AuthorID,
		Subject:   m.Subject,
		Body:      m.Body,
		Status:    entity.TicketStatus(m.Status),
		Priority:  entity.TicketPriority(m.Priority),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToTicketModel(e *entity.SupportTicket) *model.TicketModel {
	return &model.TicketModel{
		ID:       e.ID,
		OrgID:    e.OrgID,
		AuthorID: e.AuthorID,
		Subject:  e.Subject,
		Body:     e.Body,
		Status:   string(e.Status),
		Priority: string(e.Priority),
	}
}

func ToReplyEntity(m *model.TicketReplyModel) *entity.TicketReply {
	return &entity.TicketReply{
		ID:        m.ID,
		TicketID:  m.TicketID,
		AuthorID:  m.AuthorID,
		Staff:     m.Staff,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func ToReplyModel(e *entity.TicketReply) *model.TicketReplyModel {
	return &model.TicketReplyModel{
		ID:       e.ID,
		TicketID: e.TicketID,
		AuthorID: e.AuthorID,
		Staff:    e.Staff,
		Body:     e.Body,
	}
}

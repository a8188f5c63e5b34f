package persistent

import (
	"postdeck/services/support/internal/entity"
	"postdeck/services/support/internal/model"

	"gorm.io/gorm"
)

// queueOrder ranks the staff queue by urgency, oldest first within a
// priority.
const queueOrder = "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END, created_at ASC"

type TicketRepository interface {
	CreateTicket(ticket *entity.SupportTicket) error
	GetTicketByID(id string) (*entity.SupportTicket, error)
	ListTicketsByAuthor(authorID string) ([]*entity.SupportTicket, error)
	ListQueue(statuses []string) ([]*entity.SupportTicket, error)
	UpdateTicket(id string, updates map[string]interface{}) error

	CreateReply(reply *entity.TicketReply) error
	ListReplies(ticketID string) ([]*entity.TicketReply, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) CreateTicket(ticket *entity.SupportTicket) error {
	ticketModel := ToTicketModel(ticket)
	if err := r.db.Create(ticketModel).Error; err != nil {
		return err
	}
	*ticket = *ToTicketEntity(ticketModel)
	return nil
}

func (r *ticketRepository) GetTicketByID(id string) (*entity.SupportTicket, error) {
	var ticketModel model.TicketModel
	if err := r.db.Where("id = ?", id).First(&ticketModel).Error; err != nil {
		return nil, err
	}
	return ToTicketEntity(&ticketModel), nil
}

func (r *ticketRepository) ListTicketsByAuthor(authorID string) ([]*entity.SupportTicket, error) {
	var ticketModels []model.TicketModel
	if err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]*entity.SupportTicket, len(ticketModels))
	for i := range ticketModels {
		tickets[i] = ToTicketEntity(&ticketModels[i])
	}
	return tickets, nil
}

func (r *ticketRepository) ListQueue(statuses []string) ([]*entity.SupportTicket, error) {
	var ticketModels []model.TicketModel
	err := r.db.
		Where("status IN ?", statuses).
		Order(queueOrder).
		Find(&ticketModels).Error
	if err != nil {
		return nil, err
	}

	tickets := make([]*entity.SupportTicket, len(ticketModels))
	for i := range ticketModels {
		tickets[i] = ToTicketEntity(&ticketModels[i])
	}
	return tickets, nil
}

func (r *ticketRepository) UpdateTicket(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.TicketModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ticketRepository) CreateReply(reply *entity.TicketReply) error {
	replyModel := ToReplyModel(reply)
	if err := r.db.Create(replyModel).Error; err != nil {
		return err
	}
	*reply = *ToReplyEntity(replyModel)
	return nil
}

func (r *ticketRepository) ListReplies(ticketID string) ([]*entity.TicketReply, error) {
	var replyModels []model.TicketReplyModel
	if err := r.db.Where("ticket_id = ?", ticketID).Order("created_at ASC").Find(&replyModels).Error; err != nil {
		return nil, err
	}

	replies := make([]*entity.TicketReply, len(replyModels))
	for i := range replyModels {
		replies[i] = ToReplyEntity(&replyModels[i])
	}
	return replies, nil
}

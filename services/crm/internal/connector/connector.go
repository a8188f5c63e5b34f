package connector

import (
	"context"

	"postdeck/services/crm/internal/entity"
)

// Connector is the outbound port for one CRM vendor. Any vendor-specific
// shaping happens on the far side of the REST contract; every connector
// speaks the normalized contact shape.
type Connector interface {
	Provider() string
	FetchContacts(ctx context.Context) ([]entity.Contact, error)
	PushContact(ctx context.Context, contact entity.Contact) error
}

// Dialer builds a connector from a stored connection.
type Dialer interface {
	Dial(conn *entity.CRMConnection) Connector
}

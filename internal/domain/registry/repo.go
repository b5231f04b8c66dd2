package registry

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository persists clients.
type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Client, int, error)
	Search(ctx context.Context, term string, limit, offset int) ([]*Client, int, error)
}

// SaleCounter reports how many sales reference a client. The sales package
// provides the implementation; registry only needs the count to refuse
// deleting a client that already has history.
type SaleCounter interface {
	CountByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

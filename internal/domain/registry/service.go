package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	clients ClientRepository
	sales   SaleCounter
}

func NewService(clients ClientRepository, sales SaleCounter) *Service {
	return &Service{clients: clients, sales: sales}
}

func (s *Service) CreateClient(ctx context.Context, c *Client) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Document == "" {
		return fmt.Errorf("document is required")
	}
	c.ClientCode = GenerateClientCode(c.Document, c.Name)
	return s.clients.Create(ctx, c)
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.clients.GetByID(ctx, id)
}

// UpdateClient edits contact and identity fields. The client code is kept as
// generated at creation time so printed worksheets stay stable.
func (s *Service) UpdateClient(ctx context.Context, c *Client) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Document == "" {
		return fmt.Errorf("document is required")
	}
	existing, err := s.clients.GetByID(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("client not found")
	}
	c.ClientCode = existing.ClientCode
	c.CreatedAt = existing.CreatedAt
	return s.clients.Update(ctx, c)
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if s.sales != nil {
		n, err := s.sales.CountByClient(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("client has %d sales and cannot be deleted", n)
		}
	}
	return s.clients.Delete(ctx, id)
}

func (s *Service) ListClients(ctx context.Context, term string, limit, offset int) ([]*Client, int, error) {
	if term != "" {
		return s.clients.Search(ctx, term, limit, offset)
	}
	return s.clients.List(ctx, limit, offset)
}

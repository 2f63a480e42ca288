package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Study) error
	GetByID(ctx context.Context, id uuid.UUID) (*Study, error)
	GetByCodigo(ctx context.Context, codigo string) (*Study, error)
	Update(ctx context.Context, s *Study) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Study, int, error)
}

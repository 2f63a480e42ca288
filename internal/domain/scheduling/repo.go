package scheduling

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	ListUnbilled(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}

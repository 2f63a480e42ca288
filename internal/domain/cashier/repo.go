package cashier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoOpenShift is returned when an operation needs an open shift and none
// exists.
var ErrNoOpenShift = errors.New("no open shift")

type Repository interface {
	Create(ctx context.Context, s *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	// GetActive returns the open shift, or ErrNoOpenShift.
	GetActive(ctx context.Context) (*Shift, error)
	Close(ctx context.Context, id uuid.UUID, fechaCierre time.Time) error
	List(ctx context.Context, limit, offset int) ([]*Shift, int, error)
}

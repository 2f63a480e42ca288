package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create stores the invoice and assigns its sequential numero.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByNumero(ctx context.Context, numero string) (*Invoice, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error)
	// SumSince totals non-anulada invoices created at or after since.
	SumSince(ctx context.Context, since time.Time) (float64, error)
	// SumMonth totals non-anulada invoices created in the given month.
	SumMonth(ctx context.Context, year int, month time.Month) (float64, error)
}

package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediccore/mediccore/internal/domain/cashier"
)

// ErrCajaCerrada is returned when an invoice is attempted with no open cash
// shift.
var ErrCajaCerrada = errors.New("la caja está cerrada")

type Service struct {
	invoices Repository
	shifts   cashier.Repository
}

func NewService(invoices Repository, shifts cashier.Repository) *Service {
	return &Service{invoices: invoices, shifts: shifts}
}

// Create issues an invoice. It requires an open cash shift, recomputes all
// totals server-side and derives the estado from the payment.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if inv.PacienteID == uuid.Nil {
		return fmt.Errorf("paciente_id is required")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	if inv.MontoPagado < 0 {
		return fmt.Errorf("monto_pagado must not be negative")
	}

	shift, err := s.shifts.GetActive(ctx)
	if err != nil {
		if errors.Is(err, cashier.ErrNoOpenShift) {
			return ErrCajaCerrada
		}
		return err
	}
	inv.TurnoID = shift.ID

	if inv.MetodoPago == "" {
		inv.MetodoPago = "efectivo"
	}

	inv.Recompute()
	inv.DeriveEstado()

	return s.invoices.Create(ctx, inv)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) GetByNumero(ctx context.Context, numero string) (*Invoice, error) {
	return s.invoices.GetByNumero(ctx, numero)
}

// Anular voids an invoice. Voided invoices stay voided.
func (s *Service) Anular(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Estado == EstadoAnulada {
		return nil, fmt.Errorf("factura %s is already anulada", inv.Numero)
	}
	if err := s.invoices.UpdateEstado(ctx, id, EstadoAnulada); err != nil {
		return nil, err
	}
	inv.Estado = EstadoAnulada
	return inv, nil
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, params, limit, offset)
}

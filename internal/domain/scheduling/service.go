package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediccore/mediccore/internal/domain/catalog"
)

type Service struct {
	citas   Repository
	studies catalog.Repository
}

func NewService(citas Repository, studies catalog.Repository) *Service {
	return &Service{citas: citas, studies: studies}
}

// Create books an appointment. Line prices and names are taken from the
// catalog, not from the client, and totals are recomputed from the lines.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PacienteID == uuid.Nil {
		return fmt.Errorf("paciente_id is required")
	}
	if a.Fecha.IsZero() {
		return fmt.Errorf("fecha is required")
	}
	if len(a.Lines) == 0 {
		return fmt.Errorf("at least one estudio is required")
	}
	if a.Estado == "" {
		a.Estado = EstadoProgramada
	}
	if !validEstados[a.Estado] {
		return fmt.Errorf("invalid estado: %s", a.Estado)
	}

	for i := range a.Lines {
		st, err := s.studies.GetByID(ctx, a.Lines[i].EstudioID)
		if err != nil {
			return fmt.Errorf("estudio %s not found", a.Lines[i].EstudioID)
		}
		if !st.Activo {
			return fmt.Errorf("estudio %s is not active", st.Codigo)
		}
		a.Lines[i].Nombre = st.Nombre
		a.Lines[i].Precio = st.Precio
	}
	a.Recompute()

	return s.citas.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.citas.GetByID(ctx, id)
}

// UpdateEstado applies a validated estado transition.
func (s *Service) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	if !validEstados[estado] {
		return fmt.Errorf("invalid estado: %s", estado)
	}
	a, err := s.citas.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(a.Estado, estado) {
		return fmt.Errorf("cannot transition from %s to %s", a.Estado, estado)
	}
	return s.citas.UpdateEstado(ctx, id, estado)
}

// Cancel marks the appointment cancelada regardless of its current estado.
// The intake saga uses it to undo an appointment whose invoice failed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	a, err := s.citas.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Estado == EstadoCancelada {
		return nil
	}
	return s.citas.UpdateEstado(ctx, id, EstadoCancelada)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.citas.List(ctx, params, limit, offset)
}

// ListUnbilled returns appointments still awaiting an invoice.
func (s *Service) ListUnbilled(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.citas.ListUnbilled(ctx, limit, offset)
}

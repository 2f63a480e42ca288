package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// validatePatient enforces the intake form rules: nombre, apellido, telefono
// and fecha de nacimiento are always required; cedula only for adults.
func validatePatient(p *Patient) error {
	if strings.TrimSpace(p.Nombre) == "" {
		return fmt.Errorf("nombre is required")
	}
	if strings.TrimSpace(p.Apellido) == "" {
		return fmt.Errorf("apellido is required")
	}
	if !p.EsMenor && (p.Cedula == nil || strings.TrimSpace(*p.Cedula) == "") {
		return fmt.Errorf("cedula is required")
	}
	if strings.TrimSpace(p.Telefono) == "" {
		return fmt.Errorf("telefono is required")
	}
	if p.FechaNacimiento.IsZero() {
		return fmt.Errorf("fecha_nacimiento is required")
	}
	return nil
}

// Validate reports whether p is a complete intake form.
func Validate(p *Patient) error { return validatePatient(p) }

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	if p.Cedula != nil && *p.Cedula != "" {
		if existing, err := s.patients.GetByCedula(ctx, *p.Cedula); err == nil && existing != nil {
			return fmt.Errorf("cedula %s is already registered", *p.Cedula)
		}
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByCedula(ctx context.Context, cedula string) (*Patient, error) {
	return s.patients.GetByCedula(ctx, cedula)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// Search matches nombre, apellido or cedula by substring.
func (s *Service) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.patients.List(ctx, limit, offset)
	}
	return s.patients.Search(ctx, term, limit, offset)
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	studies Repository
}

func NewService(studies Repository) *Service {
	return &Service{studies: studies}
}

func validateStudy(s *Study) error {
	if strings.TrimSpace(s.Codigo) == "" {
		return fmt.Errorf("codigo is required")
	}
	if strings.TrimSpace(s.Nombre) == "" {
		return fmt.Errorf("nombre is required")
	}
	if s.Precio < 0 {
		return fmt.Errorf("precio must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, st *Study) error {
	if err := validateStudy(st); err != nil {
		return err
	}
	if existing, err := s.studies.GetByCodigo(ctx, st.Codigo); err == nil && existing != nil {
		return fmt.Errorf("codigo %s already exists", st.Codigo)
	}
	st.Activo = true
	return s.studies.Create(ctx, st)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Study, error) {
	return s.studies.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, st *Study) error {
	if st.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if err := validateStudy(st); err != nil {
		return err
	}
	return s.studies.Update(ctx, st)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Study, int, error) {
	return s.studies.List(ctx, params, limit, offset)
}

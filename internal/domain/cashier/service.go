package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	shifts Repository
}

func NewService(shifts Repository) *Service {
	return &Service{shifts: shifts}
}

// Open starts a cash shift for the given user. If a shift is already open it
// is returned as-is, so repeated opens are safe.
func (s *Service) Open(ctx context.Context, userID uuid.UUID) (*Shift, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	active, err := s.shifts.GetActive(ctx)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, ErrNoOpenShift) {
		return nil, err
	}

	shift := &Shift{
		AbiertoPor:  userID,
		FechaInicio: time.Now(),
		Estado:      EstadoAbierta,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// Close ends the open shift. The confirm flag must be set on every call; it
// is never remembered from a previous request.
func (s *Service) Close(ctx context.Context, confirm bool) (*Shift, error) {
	if !confirm {
		return nil, fmt.Errorf("closing the shift requires confirmation")
	}

	active, err := s.shifts.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.shifts.Close(ctx, active.ID, now); err != nil {
		return nil, err
	}
	active.Estado = EstadoCerrada
	active.FechaCierre = &now
	return active, nil
}

// GetActive returns the open shift, or ErrNoOpenShift.
func (s *Service) GetActive(ctx context.Context) (*Shift, error) {
	return s.shifts.GetActive(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Shift, int, error) {
	return s.shifts.List(ctx, limit, offset)
}

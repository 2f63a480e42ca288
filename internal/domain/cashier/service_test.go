package cashier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	shifts map[uuid.UUID]*Shift
}

func newMockRepo() *mockRepo {
	return &mockRepo{shifts: make(map[uuid.UUID]*Shift)}
}

func (m *mockRepo) Create(_ context.Context, s *Shift) error {
	s.ID = uuid.New()
	m.shifts[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockRepo) GetActive(_ context.Context) (*Shift, error) {
	for _, s := range m.shifts {
		if s.Estado == EstadoAbierta {
			return s, nil
		}
	}
	return nil, ErrNoOpenShift
}

func (m *mockRepo) Close(_ context.Context, id uuid.UUID, fechaCierre time.Time) error {
	s, ok := m.shifts[id]
	if !ok || s.Estado != EstadoAbierta {
		return fmt.Errorf("not open")
	}
	s.Estado = EstadoCerrada
	s.FechaCierre = &fechaCierre
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Shift, int, error) {
	var items []*Shift
	for _, s := range m.shifts {
		items = append(items, s)
	}
	return items, len(items), nil
}

func TestOpenShift(t *testing.T) {
	svc := NewService(newMockRepo())

	shift, err := svc.Open(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Estado != EstadoAbierta {
		t.Errorf("expected abierta, got %s", shift.Estado)
	}
	if shift.FechaInicio.IsZero() {
		t.Error("expected fecha_inicio to be set")
	}
}

func TestOpenShiftIdempotent(t *testing.T) {
	svc := NewService(newMockRepo())

	first, err := svc.Open(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Open(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected second open to return the already open shift")
	}
}

func TestCloseShiftRequiresConfirmation(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Open(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Close(context.Background(), false); err == nil {
		t.Fatal("expected error without confirmation")
	}

	// confirming works
	shift, err := svc.Close(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Estado != EstadoCerrada {
		t.Errorf("expected cerrada, got %s", shift.Estado)
	}
	if shift.FechaCierre == nil {
		t.Error("expected fecha_cierre to be set")
	}
}

func TestCloseConfirmationNeverSticky(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Open(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Close(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a new shift must be confirmed again even though the previous close was
	if _, err := svc.Open(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Close(context.Background(), false); err == nil {
		t.Error("expected error: confirmation must be supplied on every close")
	}
}

func TestCloseWithoutOpenShift(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Close(context.Background(), true); err == nil {
		t.Error("expected error with no open shift")
	}
}

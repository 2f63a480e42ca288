package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func addInvoice(repo *mockInvoiceRepo, total float64, estado string, createdAt time.Time) {
	inv := &Invoice{
		PacienteID: uuid.New(),
		Total:      total,
		Estado:     estado,
		CreatedAt:  createdAt,
	}
	_ = repo.Create(context.Background(), inv)
	inv.Total = total
	inv.Estado = estado
	inv.CreatedAt = createdAt
}

func TestLedgerRefresh(t *testing.T) {
	repo := newMockInvoiceRepo()
	shifts := openShift()
	now := time.Now()

	addInvoice(repo, 1000, EstadoPagada, now)                      // counts for both
	addInvoice(repo, 500, EstadoEmitida, now)                      // counts for both
	addInvoice(repo, 300, EstadoAnulada, now)                      // voided, counts for neither
	addInvoice(repo, 200, EstadoPagada, shifts.active.FechaInicio.Add(-time.Hour)) // before the shift

	ledger := NewLedger(repo, shifts, zerolog.Nop())
	if err := ledger.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := ledger.Snapshot()
	if snap.TotalHoy != 1500 {
		t.Errorf("expected total_hoy 1500, got %v", snap.TotalHoy)
	}
	if snap.TotalMes != 1700 {
		t.Errorf("expected total_mes 1700, got %v", snap.TotalMes)
	}
	if snap.ActualizadoEn.IsZero() {
		t.Error("expected actualizado_en to be set")
	}
}

func TestLedgerRefreshNoOpenShift(t *testing.T) {
	repo := newMockInvoiceRepo()
	addInvoice(repo, 1000, EstadoPagada, time.Now())

	ledger := NewLedger(repo, &mockShiftRepo{}, zerolog.Nop())
	if err := ledger.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := ledger.Snapshot()
	if snap.TotalHoy != 0 {
		t.Errorf("expected total_hoy 0 with closed register, got %v", snap.TotalHoy)
	}
	if snap.TotalMes != 1000 {
		t.Errorf("expected total_mes 1000, got %v", snap.TotalMes)
	}
}

func TestLedgerRunStopsOnCancel(t *testing.T) {
	repo := newMockInvoiceRepo()
	ledger := NewLedger(repo, &mockShiftRepo{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ledger.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ledger poller did not stop on cancel")
	}
}

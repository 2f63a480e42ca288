package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediccore/mediccore/internal/domain/cashier"
)

// Snapshot is the cached cash summary shown on the register screen.
type Snapshot struct {
	TotalHoy      float64   `json:"total_hoy"`
	TotalMes      float64   `json:"total_mes"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

// Ledger keeps a periodically refreshed revenue summary. TotalHoy covers the
// open shift (zero when the register is closed), TotalMes the calendar month.
// Voided invoices count toward neither.
type Ledger struct {
	invoices Repository
	shifts   cashier.Repository
	logger   zerolog.Logger

	refreshMu sync.Mutex

	mu   sync.RWMutex
	snap Snapshot
}

func NewLedger(invoices Repository, shifts cashier.Repository, logger zerolog.Logger) *Ledger {
	return &Ledger{invoices: invoices, shifts: shifts, logger: logger}
}

// Refresh recomputes the snapshot. Concurrent calls are serialized so two
// refreshes never run at once.
func (l *Ledger) Refresh(ctx context.Context) error {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	var totalHoy float64
	shift, err := l.shifts.GetActive(ctx)
	switch {
	case err == nil:
		totalHoy, err = l.invoices.SumSince(ctx, shift.FechaInicio)
		if err != nil {
			return err
		}
	case errors.Is(err, cashier.ErrNoOpenShift):
		totalHoy = 0
	default:
		return err
	}

	now := time.Now()
	totalMes, err := l.invoices.SumMonth(ctx, now.Year(), now.Month())
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.snap = Snapshot{TotalHoy: totalHoy, TotalMes: totalMes, ActualizadoEn: now}
	l.mu.Unlock()
	return nil
}

// TodayTotal returns the cached revenue for the open shift.
func (l *Ledger) TodayTotal() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.TotalHoy
}

// Snapshot returns the last refreshed summary.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Run refreshes the snapshot on the given interval until ctx is cancelled.
func (l *Ledger) Run(ctx context.Context, interval time.Duration) {
	if err := l.Refresh(ctx); err != nil {
		l.logger.Error().Err(err).Msg("ledger refresh failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("ledger poller stopped")
			return
		case <-ticker.C:
			if err := l.Refresh(ctx); err != nil {
				l.logger.Error().Err(err).Msg("ledger refresh failed")
			}
		}
	}
}

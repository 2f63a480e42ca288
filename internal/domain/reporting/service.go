package reporting

import (
	"context"
)

// LedgerSource supplies the revenue figure already maintained by the billing
// ledger, so the dashboard never recomputes it.
type LedgerSource interface {
	TodayTotal() float64
}

type Service struct {
	repo   Repository
	ledger LedgerSource
}

func NewService(repo Repository, ledger LedgerSource) *Service {
	return &Service{repo: repo, ledger: ledger}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	citas, err := s.repo.CitasHoy(ctx)
	if err != nil {
		return nil, err
	}
	estudios, err := s.repo.EstudiosRealizados(ctx)
	if err != nil {
		return nil, err
	}
	nuevos, err := s.repo.PacientesNuevos(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		CitasHoy:           citas,
		EstudiosRealizados: estudios,
		IngresosHoy:        s.ledger.TodayTotal(),
		PacientesNuevos:    nuevos,
	}, nil
}

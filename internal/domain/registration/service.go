package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediccore/mediccore/internal/domain/billing"
	"github.com/mediccore/mediccore/internal/domain/cashier"
	"github.com/mediccore/mediccore/internal/domain/catalog"
	"github.com/mediccore/mediccore/internal/domain/identity"
	"github.com/mediccore/mediccore/internal/domain/scheduling"
)

type Service struct {
	store    *Store
	patients *identity.Service
	studies  catalog.Repository
	citas    *scheduling.Service
	invoices *billing.Service
	shifts   cashier.Repository
	logger   zerolog.Logger
}

func NewService(store *Store, patients *identity.Service, studies catalog.Repository,
	citas *scheduling.Service, invoices *billing.Service, shifts cashier.Repository,
	logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		patients: patients,
		studies:  studies,
		citas:    citas,
		invoices: invoices,
		shifts:   shifts,
		logger:   logger,
	}
}

func (s *Service) Start() *Wizard {
	return s.store.Start()
}

func (s *Service) Get(id uuid.UUID) (*Wizard, error) {
	return s.store.Get(id)
}

// SelectPatient attaches an existing patient to the intake.
func (s *Service) SelectPatient(ctx context.Context, wizardID, pacienteID uuid.UUID) error {
	if _, err := s.patients.Get(ctx, pacienteID); err != nil {
		return fmt.Errorf("paciente %s not found", pacienteID)
	}
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.SelectPatient(pacienteID)
	})
}

// SubmitNewPatient validates the intake form. The patient is not persisted
// until the intake is finalized, so an abandoned wizard leaves no record.
func (s *Service) SubmitNewPatient(wizardID uuid.UUID, p *identity.Patient) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.SubmitNewPatient(p)
	})
}

func (s *Service) AddStudy(ctx context.Context, wizardID, estudioID uuid.UUID) error {
	st, err := s.studies.GetByID(ctx, estudioID)
	if err != nil {
		return fmt.Errorf("estudio %s not found", estudioID)
	}
	if !st.Activo {
		return fmt.Errorf("estudio %s is not active", st.Codigo)
	}
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.AddStudy(st)
	})
}

func (s *Service) RemoveStudy(wizardID, estudioID uuid.UUID) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.RemoveStudy(estudioID)
	})
}

func (s *Service) SetCobertura(wizardID, estudioID uuid.UUID, monto float64) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.SetCobertura(estudioID, monto)
	})
}

func (s *Service) SetDescuento(wizardID uuid.UUID, monto float64) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.SetDescuento(monto)
	})
}

func (s *Service) SetPago(wizardID uuid.UUID, metodo string, monto float64) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.SetPago(metodo, monto)
	})
}

func (s *Service) Advance(wizardID uuid.UUID) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.Advance()
	})
}

func (s *Service) Back(wizardID uuid.UUID) error {
	return s.store.Do(wizardID, func(w *Wizard) error {
		return w.Back()
	})
}

// ErrSaveFailed marks a storage failure while persisting a finalized intake,
// as opposed to a rejected wizard state.
var ErrSaveFailed = errors.New("el registro no pudo ser guardado")

// FinalizeResult is the outcome of a completed intake.
type FinalizeResult struct {
	Paciente *identity.Patient       `json:"paciente"`
	Cita     *scheduling.Appointment `json:"cita"`
	Factura  *billing.Invoice        `json:"factura"`
	Cambio   float64                 `json:"cambio"`
}

// Finalize turns the intake into a persisted appointment and invoice. The
// appointment is created first; if the invoice then fails, the appointment is
// cancelled so no half-registered intake survives. The cash shift is checked
// before anything is written.
func (s *Service) Finalize(ctx context.Context, wizardID uuid.UUID) (*FinalizeResult, error) {
	w, err := s.store.Get(wizardID)
	if err != nil {
		return nil, err
	}
	if w.Paso != StepLiquidacion {
		return nil, fmt.Errorf("intake is not at the liquidación paso")
	}
	if len(w.Lines) == 0 {
		return nil, fmt.Errorf("at least one estudio must be selected")
	}

	if _, err := s.shifts.GetActive(ctx); err != nil {
		if errors.Is(err, cashier.ErrNoOpenShift) {
			return nil, billing.ErrCajaCerrada
		}
		return nil, err
	}

	patient, err := s.resolvePatient(ctx, w)
	if err != nil {
		return nil, err
	}
	// Remember the persisted patient on the session, so retrying after a
	// later failure does not create a second record.
	_ = s.store.Do(wizardID, func(live *Wizard) error {
		id := patient.ID
		live.PacienteID = &id
		live.NewPatient = nil
		return nil
	})

	pagado := w.MontoPagado >= w.Total()
	cita := &scheduling.Appointment{
		PacienteID: patient.ID,
		Fecha:      time.Now(),
		MetodoPago: w.MetodoPago,
		Pagado:     pagado,
		Estado:     scheduling.EstadoCompletada,
	}
	// Each line carries its cobertura as the line descuento, with the flat
	// descuento folded onto the first line, so the cita's recomputed totals
	// agree with the factura.
	for i, l := range w.Lines {
		line := scheduling.AppointmentLine{
			EstudioID: l.EstudioID,
			Cantidad:  l.Cantidad,
			Descuento: l.Cobertura,
		}
		if i == 0 {
			line.Descuento += w.Descuento
		}
		cita.Lines = append(cita.Lines, line)
	}
	if err := s.citas.Create(ctx, cita); err != nil {
		return nil, fmt.Errorf("%w: creating cita: %w", ErrSaveFailed, err)
	}

	inv := s.buildInvoice(w, patient, cita)
	if err := s.invoices.Create(ctx, inv); err != nil {
		// Compensate: the appointment must not survive without its invoice.
		if cancelErr := s.citas.Cancel(ctx, cita.ID); cancelErr != nil {
			s.logger.Error().Err(cancelErr).
				Str("cita_id", cita.ID.String()).
				Msg("compensation failed: cita left without factura")
			return nil, fmt.Errorf("%w: creating factura: %w (and cancelling cita %s failed: %v)", ErrSaveFailed, err, cita.ID, cancelErr)
		}
		s.logger.Warn().
			Str("cita_id", cita.ID.String()).
			Msg("factura failed, cita cancelled")
		return nil, fmt.Errorf("%w: creating factura: %w", ErrSaveFailed, err)
	}

	s.store.Delete(wizardID)

	return &FinalizeResult{
		Paciente: patient,
		Cita:     cita,
		Factura:  inv,
		Cambio:   inv.Cambio(),
	}, nil
}

func (s *Service) resolvePatient(ctx context.Context, w *Wizard) (*identity.Patient, error) {
	if w.NewPatient != nil {
		if err := s.patients.Create(ctx, w.NewPatient); err != nil {
			return nil, fmt.Errorf("creating paciente: %w", err)
		}
		return w.NewPatient, nil
	}
	if w.PacienteID == nil {
		return nil, fmt.Errorf("no paciente selected")
	}
	patient, err := s.patients.Get(ctx, *w.PacienteID)
	if err != nil {
		return nil, fmt.Errorf("paciente %s not found", *w.PacienteID)
	}
	return patient, nil
}

func (s *Service) buildInvoice(w *Wizard, patient *identity.Patient, cita *scheduling.Appointment) *billing.Invoice {
	inv := &billing.Invoice{
		PacienteID:  patient.ID,
		CitaID:      &cita.ID,
		Cobertura:   w.Cobertura(),
		Descuento:   w.Descuento,
		MontoPagado: w.MontoPagado,
		MetodoPago:  w.MetodoPago,
		DatosCliente: billing.DatosCliente{
			Nombre:   patient.NombreCompleto(),
			Telefono: patient.Telefono,
		},
	}
	if patient.Cedula != nil {
		inv.DatosCliente.Cedula = *patient.Cedula
	}
	for _, l := range w.Lines {
		estudioID := l.EstudioID
		inv.Items = append(inv.Items, billing.InvoiceItem{
			EstudioID:      &estudioID,
			Descripcion:    l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.Precio,
		})
	}
	return inv
}

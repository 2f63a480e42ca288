package registration

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediccore/mediccore/internal/domain/catalog"
	"github.com/mediccore/mediccore/internal/domain/identity"
)

// Wizard steps, in order. There is no skipping forward.
const (
	StepIdentificacion = 1
	StepEstudios       = 2
	StepLiquidacion    = 3
)

// StudyLine is a study picked during intake. Cantidad is always 1; the same
// study cannot be added twice. Cobertura is the insurer's share for the line.
type StudyLine struct {
	EstudioID uuid.UUID `json:"estudio_id"`
	Nombre    string    `json:"nombre"`
	Precio    float64   `json:"precio"`
	Cantidad  int       `json:"cantidad"`
	Cobertura float64   `json:"cobertura"`
}

// Wizard holds one in-progress patient intake.
type Wizard struct {
	ID          uuid.UUID         `json:"id"`
	Paso        int               `json:"paso"`
	PacienteID  *uuid.UUID        `json:"paciente_id,omitempty"`
	NewPatient  *identity.Patient `json:"paciente_nuevo,omitempty"`
	Lines       []StudyLine       `json:"estudios"`
	Descuento   float64           `json:"descuento"`
	MetodoPago  string            `json:"metodo_pago"`
	MontoPagado float64           `json:"monto_pagado"`
	CreatedAt   time.Time         `json:"created_at"`
}

func newWizard() *Wizard {
	return &Wizard{
		ID:         uuid.New(),
		Paso:       StepIdentificacion,
		MetodoPago: "efectivo",
		CreatedAt:  time.Now(),
	}
}

// clone returns an independent copy. The store hands out clones so readers
// never share memory with a wizard being mutated under the store lock.
func (w *Wizard) clone() *Wizard {
	c := *w
	c.Lines = append([]StudyLine(nil), w.Lines...)
	if w.PacienteID != nil {
		id := *w.PacienteID
		c.PacienteID = &id
	}
	if w.NewPatient != nil {
		p := *w.NewPatient
		if w.NewPatient.Seguro != nil {
			seg := *w.NewPatient.Seguro
			p.Seguro = &seg
		}
		c.NewPatient = &p
	}
	return &c
}

// SelectPatient attaches an existing patient and advances to study selection.
func (w *Wizard) SelectPatient(id uuid.UUID) error {
	if w.Paso != StepIdentificacion {
		return fmt.Errorf("paciente can only be set in paso %d", StepIdentificacion)
	}
	w.PacienteID = &id
	w.NewPatient = nil
	w.Paso = StepEstudios
	return nil
}

// SubmitNewPatient validates the intake form and advances to study selection.
// An invalid form leaves the wizard exactly where it was.
func (w *Wizard) SubmitNewPatient(p *identity.Patient) error {
	if w.Paso != StepIdentificacion {
		return fmt.Errorf("paciente can only be set in paso %d", StepIdentificacion)
	}
	if err := identity.Validate(p); err != nil {
		return err
	}
	w.NewPatient = p
	w.PacienteID = nil
	w.Paso = StepEstudios
	return nil
}

// AddStudy appends a line for the study. Adding a study twice is a no-op.
func (w *Wizard) AddStudy(st *catalog.Study) error {
	if w.Paso < StepEstudios {
		return fmt.Errorf("estudios cannot be selected before paso %d", StepEstudios)
	}
	for _, l := range w.Lines {
		if l.EstudioID == st.ID {
			return nil
		}
	}
	w.Lines = append(w.Lines, StudyLine{
		EstudioID: st.ID,
		Nombre:    st.Nombre,
		Precio:    st.Precio,
		Cantidad:  1,
	})
	return nil
}

func (w *Wizard) RemoveStudy(estudioID uuid.UUID) error {
	for i, l := range w.Lines {
		if l.EstudioID == estudioID {
			w.Lines = append(w.Lines[:i], w.Lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("estudio %s is not selected", estudioID)
}

// SetCobertura records the insurer's share for one line.
func (w *Wizard) SetCobertura(estudioID uuid.UUID, monto float64) error {
	if monto < 0 {
		return fmt.Errorf("cobertura must not be negative")
	}
	for i := range w.Lines {
		if w.Lines[i].EstudioID == estudioID {
			w.Lines[i].Cobertura = monto
			return nil
		}
	}
	return fmt.Errorf("estudio %s is not selected", estudioID)
}

func (w *Wizard) SetDescuento(monto float64) error {
	if monto < 0 {
		return fmt.Errorf("descuento must not be negative")
	}
	w.Descuento = monto
	return nil
}

func (w *Wizard) SetPago(metodo string, monto float64) error {
	if monto < 0 {
		return fmt.Errorf("monto_pagado must not be negative")
	}
	if metodo != "" {
		w.MetodoPago = metodo
	}
	w.MontoPagado = monto
	return nil
}

// Advance moves from study selection to settlement. It requires at least one
// selected study.
func (w *Wizard) Advance() error {
	if w.Paso != StepEstudios {
		return fmt.Errorf("cannot advance from paso %d", w.Paso)
	}
	if len(w.Lines) == 0 {
		return fmt.Errorf("at least one estudio must be selected")
	}
	w.Paso = StepLiquidacion
	return nil
}

// Back returns to the previous step. Selections are kept.
func (w *Wizard) Back() error {
	if w.Paso <= StepIdentificacion {
		return fmt.Errorf("already at the first paso")
	}
	w.Paso--
	return nil
}

// Subtotal is the sum of line prices times quantity.
func (w *Wizard) Subtotal() float64 {
	var sum float64
	for _, l := range w.Lines {
		sum += l.Precio * float64(l.Cantidad)
	}
	return sum
}

// Cobertura is the sum of per-line insurer shares.
func (w *Wizard) Cobertura() float64 {
	var sum float64
	for _, l := range w.Lines {
		sum += l.Cobertura
	}
	return sum
}

// Total is subtotal minus cobertura and descuento, never below zero.
func (w *Wizard) Total() float64 {
	total := w.Subtotal() - w.Cobertura() - w.Descuento
	if total < 0 {
		return 0
	}
	return total
}

// Cambio is the change due. Negative means the payment fell short.
func (w *Wizard) Cambio() float64 {
	return w.MontoPagado - w.Total()
}

// View decorates the wizard with its derived amounts for API responses.
type View struct {
	*Wizard
	Subtotal  float64 `json:"subtotal"`
	Cobertura float64 `json:"cobertura"`
	Total     float64 `json:"total"`
	Cambio    float64 `json:"cambio"`
}

func NewView(w *Wizard) View {
	return View{
		Wizard:    w,
		Subtotal:  w.Subtotal(),
		Cobertura: w.Cobertura(),
		Total:     w.Total(),
		Cambio:    w.Cambio(),
	}
}

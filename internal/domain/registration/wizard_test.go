package registration

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mediccore/mediccore/internal/domain/catalog"
	"github.com/mediccore/mediccore/internal/domain/identity"
)

func strPtr(s string) *string { return &s }

func validForm() *identity.Patient {
	return &identity.Patient{
		Nombre:          "María",
		Apellido:        "González",
		Cedula:          strPtr("001-1234567-8"),
		Telefono:        "809-555-0101",
		FechaNacimiento: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func study(nombre string, precio float64) *catalog.Study {
	return &catalog.Study{ID: uuid.New(), Codigo: nombre, Nombre: nombre, Precio: precio, Activo: true}
}

func TestWizardStartsAtIdentificacion(t *testing.T) {
	w := newWizard()
	if w.Paso != StepIdentificacion {
		t.Errorf("expected paso %d, got %d", StepIdentificacion, w.Paso)
	}
	if w.MetodoPago != "efectivo" {
		t.Errorf("expected efectivo default, got %s", w.MetodoPago)
	}
}

func TestSelectPatientAdvances(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Paso != StepEstudios {
		t.Errorf("expected paso %d, got %d", StepEstudios, w.Paso)
	}
}

func TestSubmitNewPatientValidForm(t *testing.T) {
	w := newWizard()
	if err := w.SubmitNewPatient(validForm()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Paso != StepEstudios {
		t.Errorf("expected paso %d, got %d", StepEstudios, w.Paso)
	}
}

func TestSubmitNewPatientInvalidFormBlocks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*identity.Patient)
	}{
		{"missing nombre", func(p *identity.Patient) { p.Nombre = "" }},
		{"missing apellido", func(p *identity.Patient) { p.Apellido = "" }},
		{"adult without cedula", func(p *identity.Patient) { p.Cedula = nil }},
		{"missing telefono", func(p *identity.Patient) { p.Telefono = "" }},
		{"missing fecha_nacimiento", func(p *identity.Patient) { p.FechaNacimiento = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWizard()
			form := validForm()
			tt.mutate(form)
			if err := w.SubmitNewPatient(form); err == nil {
				t.Fatal("expected validation error")
			}
			if w.Paso != StepIdentificacion {
				t.Errorf("invalid form must not advance: paso %d", w.Paso)
			}
		})
	}
}

func TestSubmitNewPatientMinorWithoutCedula(t *testing.T) {
	w := newWizard()
	form := validForm()
	form.Cedula = nil
	form.EsMenor = true
	if err := w.SubmitNewPatient(form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddStudyDedup(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := study("Hemograma", 850)
	if err := w.AddStudy(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddStudy(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Lines) != 1 {
		t.Errorf("expected 1 line after duplicate add, got %d", len(w.Lines))
	}
	if w.Lines[0].Cantidad != 1 {
		t.Errorf("expected cantidad 1, got %d", w.Lines[0].Cantidad)
	}
}

func TestAddStudyBeforeEstudiosPaso(t *testing.T) {
	w := newWizard()
	if err := w.AddStudy(study("Hemograma", 850)); err == nil {
		t.Error("expected error adding study in paso 1")
	}
}

func TestAdvanceRequiresStudies(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Advance(); err == nil {
		t.Fatal("expected error advancing with no studies")
	}
	if w.Paso != StepEstudios {
		t.Errorf("failed advance must not move: paso %d", w.Paso)
	}

	if err := w.AddStudy(study("Hemograma", 850)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Paso != StepLiquidacion {
		t.Errorf("expected paso %d, got %d", StepLiquidacion, w.Paso)
	}
}

func TestBackKeepsSelections(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddStudy(study("Hemograma", 850)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Paso != StepEstudios {
		t.Errorf("expected paso %d, got %d", StepEstudios, w.Paso)
	}
	if len(w.Lines) != 1 {
		t.Error("going back must keep the selected studies")
	}

	if err := w.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Back(); err == nil {
		t.Error("expected error going back from the first paso")
	}
}

func TestDerivedAmounts(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := study("Hemograma", 1000)
	b := study("Glicemia", 500)
	if err := w.AddStudy(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddStudy(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetCobertura(a.ID, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetDescuento(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := w.Subtotal(); got != 1500 {
		t.Errorf("expected subtotal 1500, got %v", got)
	}
	if got := w.Cobertura(); got != 200 {
		t.Errorf("expected cobertura 200, got %v", got)
	}
	if got := w.Total(); got != 1250 {
		t.Errorf("expected total 1250, got %v", got)
	}

	if err := w.SetPago("efectivo", 1250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Cambio(); got != 0 {
		t.Errorf("expected cambio 0, got %v", got)
	}

	if err := w.SetPago("efectivo", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Cambio(); got != -250 {
		t.Errorf("expected cambio -250, got %v", got)
	}
}

func TestTotalNeverNegative(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := study("Hemograma", 100)
	if err := w.AddStudy(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetCobertura(st.ID, 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetDescuento(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := w.Total(); got != 0 {
		t.Errorf("expected total clamped to 0, got %v", got)
	}
}

func TestSetCoberturaUnknownStudy(t *testing.T) {
	w := newWizard()
	if err := w.SelectPatient(uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetCobertura(uuid.New(), 100); err == nil {
		t.Error("expected error for unselected estudio")
	}
}

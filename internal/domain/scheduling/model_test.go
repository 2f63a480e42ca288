package scheduling

import "testing"

func TestRecompute(t *testing.T) {
	a := &Appointment{
		Lines: []AppointmentLine{
			{Precio: 1000, Cantidad: 1, Descuento: 0},
			{Precio: 500, Cantidad: 2, Descuento: 100},
		},
	}
	a.Recompute()

	if a.Subtotal != 2000 {
		t.Errorf("expected subtotal 2000, got %v", a.Subtotal)
	}
	if a.DescuentoTotal != 100 {
		t.Errorf("expected descuento 100, got %v", a.DescuentoTotal)
	}
	if a.Total != 1900 {
		t.Errorf("expected total 1900, got %v", a.Total)
	}
}

func TestRecomputeDefaultsCantidad(t *testing.T) {
	a := &Appointment{Lines: []AppointmentLine{{Precio: 800}}}
	a.Recompute()

	if a.Lines[0].Cantidad != 1 {
		t.Errorf("expected cantidad 1, got %d", a.Lines[0].Cantidad)
	}
	if a.Subtotal != 800 {
		t.Errorf("expected subtotal 800, got %v", a.Subtotal)
	}
}

func TestRecomputeNeverNegative(t *testing.T) {
	a := &Appointment{Lines: []AppointmentLine{{Precio: 100, Cantidad: 1, Descuento: 500}}}
	a.Recompute()

	if a.Total != 0 {
		t.Errorf("expected total clamped to 0, got %v", a.Total)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{EstadoProgramada, EstadoConfirmada, true},
		{EstadoProgramada, EstadoCompletada, true},
		{EstadoConfirmada, EstadoEnSala, true},
		{EstadoEnSala, EstadoEnProceso, true},
		{EstadoEnProceso, EstadoCompletada, true},
		{EstadoCompletada, EstadoProgramada, false},
		{EstadoCancelada, EstadoConfirmada, false},
		{EstadoNoAsistio, EstadoCompletada, false},
		{EstadoEnProceso, EstadoProgramada, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, estado := range []string{EstadoCompletada, EstadoCancelada, EstadoNoAsistio} {
		if !IsTerminal(estado) {
			t.Errorf("expected %s to be terminal", estado)
		}
	}
	for _, estado := range []string{EstadoProgramada, EstadoConfirmada, EstadoEnSala, EstadoEnProceso} {
		if IsTerminal(estado) {
			t.Errorf("expected %s not to be terminal", estado)
		}
	}
}

package billing

import "testing"

func TestRecompute(t *testing.T) {
	inv := &Invoice{
		Items: []InvoiceItem{
			{PrecioUnitario: 1000, Cantidad: 1},
			{PrecioUnitario: 500, Cantidad: 1},
		},
		Cobertura: 200,
		Descuento: 50,
	}
	inv.Recompute()

	if inv.Subtotal != 1500 {
		t.Errorf("expected subtotal 1500, got %v", inv.Subtotal)
	}
	if inv.Total != 1250 {
		t.Errorf("expected total 1250, got %v", inv.Total)
	}
}

func TestRecomputeClampsTotal(t *testing.T) {
	inv := &Invoice{
		Items:     []InvoiceItem{{PrecioUnitario: 100, Cantidad: 1}},
		Cobertura: 80,
		Descuento: 50,
	}
	inv.Recompute()

	if inv.Total != 0 {
		t.Errorf("expected total clamped to 0, got %v", inv.Total)
	}
}

func TestRecomputeItemSubtotals(t *testing.T) {
	inv := &Invoice{
		Items: []InvoiceItem{{PrecioUnitario: 300, Cantidad: 2, Descuento: 100}},
	}
	inv.Recompute()

	if inv.Items[0].Subtotal != 500 {
		t.Errorf("expected item subtotal 500, got %v", inv.Items[0].Subtotal)
	}
	if inv.Items[0].Cantidad != 2 {
		t.Errorf("expected cantidad 2, got %d", inv.Items[0].Cantidad)
	}
}

func TestDeriveEstado(t *testing.T) {
	tests := []struct {
		name        string
		total, pago float64
		want        string
	}{
		{"paid in full", 1250, 1250, EstadoPagada},
		{"overpaid", 1250, 1500, EstadoPagada},
		{"short", 1250, 1000, EstadoEmitida},
		{"zero payment", 1250, 0, EstadoEmitida},
		{"zero total", 0, 0, EstadoPagada},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Total: tt.total, MontoPagado: tt.pago}
			inv.DeriveEstado()
			if inv.Estado != tt.want {
				t.Errorf("expected %s, got %s", tt.want, inv.Estado)
			}
		})
	}
}

func TestCambio(t *testing.T) {
	inv := &Invoice{Total: 1250, MontoPagado: 1250}
	if got := inv.Cambio(); got != 0 {
		t.Errorf("expected cambio 0, got %v", got)
	}

	inv.MontoPagado = 1000
	if got := inv.Cambio(); got != -250 {
		t.Errorf("expected cambio -250, got %v", got)
	}

	inv.MontoPagado = 1500
	if got := inv.Cambio(); got != 250 {
		t.Errorf("expected cambio 250, got %v", got)
	}
}

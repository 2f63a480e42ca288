package billing

import (
	"time"

	"github.com/google/uuid"
)

// Invoice estados. anulada is terminal.
const (
	EstadoEmitida = "emitida"
	EstadoPagada  = "pagada"
	EstadoAnulada = "anulada"
)

// InvoiceItem is one billed line. Precio and descripcion are snapshots taken
// when the invoice is issued.
type InvoiceItem struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	EstudioID      *uuid.UUID `db:"estudio_id" json:"estudio_id,omitempty"`
	Descripcion    string     `db:"descripcion" json:"descripcion"`
	Cantidad       int        `db:"cantidad" json:"cantidad"`
	PrecioUnitario float64    `db:"precio_unitario" json:"precio_unitario"`
	Descuento      float64    `db:"descuento" json:"descuento"`
	Subtotal       float64    `db:"subtotal" json:"subtotal"`
}

// DatosCliente is the customer snapshot printed on the invoice. It is kept on
// the invoice so later edits to the patient record do not rewrite history.
type DatosCliente struct {
	Nombre   string `json:"nombre"`
	Cedula   string `json:"cedula"`
	Telefono string `json:"telefono"`
}

// Invoice maps to the facturas table.
type Invoice struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Numero       string        `db:"numero" json:"numero"`
	PacienteID   uuid.UUID     `db:"paciente_id" json:"paciente_id"`
	CitaID       *uuid.UUID    `db:"cita_id" json:"cita_id,omitempty"`
	TurnoID      uuid.UUID     `db:"turno_id" json:"turno_id"`
	Items        []InvoiceItem `json:"items"`
	Subtotal     float64       `db:"subtotal" json:"subtotal"`
	Cobertura    float64       `db:"cobertura" json:"cobertura"`
	Descuento    float64       `db:"descuento" json:"descuento"`
	Total        float64       `db:"total" json:"total"`
	MontoPagado  float64       `db:"monto_pagado" json:"monto_pagado"`
	MetodoPago   string        `db:"metodo_pago" json:"metodo_pago"`
	Estado       string        `db:"estado" json:"estado"`
	DatosCliente DatosCliente  `json:"datos_cliente"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Recompute derives item subtotals and the invoice totals from the items,
// overwriting whatever the caller sent. The total never goes below zero even
// when cobertura plus descuento exceed the subtotal.
func (inv *Invoice) Recompute() {
	var subtotal float64
	for i := range inv.Items {
		if inv.Items[i].Cantidad <= 0 {
			inv.Items[i].Cantidad = 1
		}
		inv.Items[i].Subtotal = inv.Items[i].PrecioUnitario*float64(inv.Items[i].Cantidad) - inv.Items[i].Descuento
		subtotal += inv.Items[i].Subtotal
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal - inv.Cobertura - inv.Descuento
	if inv.Total < 0 {
		inv.Total = 0
	}
}

// DeriveEstado sets the estado from the payment: fully covered invoices are
// pagada, anything short stays emitida.
func (inv *Invoice) DeriveEstado() {
	if inv.MontoPagado >= inv.Total {
		inv.Estado = EstadoPagada
	} else {
		inv.Estado = EstadoEmitida
	}
}

// Cambio is the change due. Negative means the payment fell short.
func (inv *Invoice) Cambio() float64 {
	return inv.MontoPagado - inv.Total
}

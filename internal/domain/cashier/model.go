package cashier

import (
	"time"

	"github.com/google/uuid"
)

const (
	EstadoAbierta = "abierta"
	EstadoCerrada = "cerrada"
)

// Shift maps to the turnos_caja table. A single shift may be open at a time;
// invoices can only be issued while one is.
type Shift struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	AbiertoPor  uuid.UUID  `db:"abierto_por" json:"abierto_por"`
	FechaInicio time.Time  `db:"fecha_inicio" json:"fecha_inicio"`
	FechaCierre *time.Time `db:"fecha_cierre" json:"fecha_cierre,omitempty"`
	Estado      string     `db:"estado" json:"estado"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

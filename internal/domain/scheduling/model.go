package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment estados. Terminal states accept no further transitions; the
// one exception is cancellation, which the intake saga may apply to undo a
// partially finished registration.
const (
	EstadoProgramada = "programada"
	EstadoConfirmada = "confirmada"
	EstadoEnSala     = "en_sala"
	EstadoEnProceso  = "en_proceso"
	EstadoCompletada = "completada"
	EstadoCancelada  = "cancelada"
	EstadoNoAsistio  = "no_asistio"
)

// AppointmentLine is one study booked on an appointment. Precio and Nombre
// are snapshots of the catalog entry at booking time.
type AppointmentLine struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EstudioID uuid.UUID `db:"estudio_id" json:"estudio_id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Precio    float64   `db:"precio" json:"precio"`
	Cantidad  int       `db:"cantidad" json:"cantidad"`
	Descuento float64   `db:"descuento" json:"descuento"`
}

// Appointment maps to the citas table.
type Appointment struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	PacienteID     uuid.UUID         `db:"paciente_id" json:"paciente_id"`
	Fecha          time.Time         `db:"fecha" json:"fecha"`
	HoraInicio     string            `db:"hora_inicio" json:"hora_inicio"`
	Lines          []AppointmentLine `json:"estudios"`
	Subtotal       float64           `db:"subtotal" json:"subtotal"`
	DescuentoTotal float64           `db:"descuento_total" json:"descuento_total"`
	Total          float64           `db:"total" json:"total"`
	MetodoPago     string            `db:"metodo_pago" json:"metodo_pago"`
	Pagado         bool              `db:"pagado" json:"pagado"`
	Estado         string            `db:"estado" json:"estado"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

var validEstados = map[string]bool{
	EstadoProgramada: true, EstadoConfirmada: true, EstadoEnSala: true,
	EstadoEnProceso: true, EstadoCompletada: true, EstadoCancelada: true,
	EstadoNoAsistio: true,
}

// estadoTransitions lists the allowed forward transitions per estado.
var estadoTransitions = map[string][]string{
	EstadoProgramada: {EstadoConfirmada, EstadoEnSala, EstadoCompletada, EstadoCancelada, EstadoNoAsistio},
	EstadoConfirmada: {EstadoEnSala, EstadoEnProceso, EstadoCompletada, EstadoCancelada, EstadoNoAsistio},
	EstadoEnSala:     {EstadoEnProceso, EstadoCompletada, EstadoCancelada},
	EstadoEnProceso:  {EstadoCompletada, EstadoCancelada},
}

// CanTransition reports whether an appointment in estado from may move to to.
func CanTransition(from, to string) bool {
	for _, allowed := range estadoTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether estado accepts no further transitions.
func IsTerminal(estado string) bool {
	return len(estadoTransitions[estado]) == 0 && validEstados[estado]
}

// Recompute derives subtotal, descuento_total and total from the lines,
// overwriting whatever the client sent.
func (a *Appointment) Recompute() {
	var subtotal, descuento float64
	for i := range a.Lines {
		if a.Lines[i].Cantidad <= 0 {
			a.Lines[i].Cantidad = 1
		}
		subtotal += a.Lines[i].Precio * float64(a.Lines[i].Cantidad)
		descuento += a.Lines[i].Descuento
	}
	a.Subtotal = subtotal
	a.DescuentoTotal = descuento
	a.Total = subtotal - descuento
	if a.Total < 0 {
		a.Total = 0
	}
}

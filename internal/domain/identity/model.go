package identity

import (
	"time"

	"github.com/google/uuid"
)

// Seguro holds the patient's insurance affiliation, when they have one.
type Seguro struct {
	Nombre         string `json:"nombre"`
	NumeroAfiliado string `json:"numero_afiliado"`
	Tipo           string `json:"tipo"`
}

// Patient maps to the pacientes table.
type Patient struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Nombre          string    `db:"nombre" json:"nombre"`
	Apellido        string    `db:"apellido" json:"apellido"`
	Cedula          *string   `db:"cedula" json:"cedula,omitempty"`
	EsMenor         bool      `db:"es_menor" json:"es_menor"`
	Telefono        string    `db:"telefono" json:"telefono"`
	Email           *string   `db:"email" json:"email,omitempty"`
	FechaNacimiento time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Sexo            *string   `db:"sexo" json:"sexo,omitempty"`
	Nacionalidad    *string   `db:"nacionalidad" json:"nacionalidad,omitempty"`
	TipoSangre      *string   `db:"tipo_sangre" json:"tipo_sangre,omitempty"`
	Direccion       *string   `db:"direccion" json:"direccion,omitempty"`
	Seguro          *Seguro   `json:"seguro,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// NombreCompleto returns the display name used on invoices and listings.
func (p *Patient) NombreCompleto() string {
	return p.Nombre + " " + p.Apellido
}

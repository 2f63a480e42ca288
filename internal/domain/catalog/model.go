package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Study maps to the estudios table. It is the priced service catalog the
// intake wizard and invoices draw from.
type Study struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Codigo    string    `db:"codigo" json:"codigo"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Precio    float64   `db:"precio" json:"precio"`
	Categoria string    `db:"categoria" json:"categoria"`
	Activo    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

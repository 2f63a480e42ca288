package users

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RolAdmin     = "admin"
	RolCajero    = "cajero"
	RolRecepcion = "recepcion"
	RolMedico    = "medico"
)

// User maps to the usuarios table. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Nombre       string    `db:"nombre" json:"nombre"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Rol          string    `db:"rol" json:"rol"`
	Activo       bool      `db:"activo" json:"activo"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

var validRoles = map[string]bool{
	RolAdmin: true, RolCajero: true, RolRecepcion: true, RolMedico: true,
}

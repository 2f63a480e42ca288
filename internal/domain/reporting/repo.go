package reporting

import "context"

type Repository interface {
	// CitasHoy counts appointments dated today.
	CitasHoy(ctx context.Context) (int, error)
	// EstudiosRealizados counts studies on appointments completed today.
	EstudiosRealizados(ctx context.Context) (int, error)
	// PacientesNuevos counts patients registered this calendar month.
	PacientesNuevos(ctx context.Context) (int, error)
}

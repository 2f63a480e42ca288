package reporting

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) CitasHoy(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM citas WHERE fecha::date = CURRENT_DATE`).Scan(&n)
	return n, err
}

func (r *repoPG) EstudiosRealizados(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM cita_estudios ce
		JOIN citas c ON c.id = ce.cita_id
		WHERE c.estado = 'completada' AND c.updated_at::date = CURRENT_DATE`).Scan(&n)
	return n, err
}

func (r *repoPG) PacientesNuevos(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM pacientes
		WHERE date_trunc('month', created_at) = date_trunc('month', CURRENT_DATE)`).Scan(&n)
	return n, err
}

package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const shiftCols = `id, abierto_por, fecha_inicio, fecha_cierre, estado, created_at`

func scanShift(row pgx.Row) (*Shift, error) {
	var s Shift
	err := row.Scan(&s.ID, &s.AbiertoPor, &s.FechaInicio, &s.FechaCierre, &s.Estado, &s.CreatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Shift) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO turnos_caja (id, abierto_por, fecha_inicio, estado)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.AbiertoPor, s.FechaInicio, s.Estado)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Shift, error) {
	return scanShift(r.pool.QueryRow(ctx, `SELECT `+shiftCols+` FROM turnos_caja WHERE id = $1`, id))
}

func (r *repoPG) GetActive(ctx context.Context) (*Shift, error) {
	s, err := scanShift(r.pool.QueryRow(ctx,
		`SELECT `+shiftCols+` FROM turnos_caja WHERE estado = 'abierta' ORDER BY fecha_inicio DESC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}
	return s, nil
}

func (r *repoPG) Close(ctx context.Context, id uuid.UUID, fechaCierre time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE turnos_caja SET estado = 'cerrada', fecha_cierre = $2
		WHERE id = $1 AND estado = 'abierta'`, id, fechaCierre)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("turno %s is not open", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Shift, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM turnos_caja`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+shiftCols+` FROM turnos_caja ORDER BY fecha_inicio DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

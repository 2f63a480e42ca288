package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const citaCols = `id, paciente_id, fecha, hora_inicio, subtotal, descuento_total, total,
	metodo_pago, pagado, estado, created_at, updated_at`

func scanCita(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PacienteID, &a.Fecha, &a.HoraInicio, &a.Subtotal, &a.DescuentoTotal,
		&a.Total, &a.MetodoPago, &a.Pagado, &a.Estado, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO citas (id, paciente_id, fecha, hora_inicio, subtotal, descuento_total, total,
			metodo_pago, pagado, estado)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PacienteID, a.Fecha, a.HoraInicio, a.Subtotal, a.DescuentoTotal, a.Total,
		a.MetodoPago, a.Pagado, a.Estado)
	if err != nil {
		return err
	}

	for i := range a.Lines {
		a.Lines[i].ID = uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO cita_estudios (id, cita_id, estudio_id, nombre, precio, cantidad, descuento)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			a.Lines[i].ID, a.ID, a.Lines[i].EstudioID, a.Lines[i].Nombre,
			a.Lines[i].Precio, a.Lines[i].Cantidad, a.Lines[i].Descuento)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanCita(r.pool.QueryRow(ctx, `SELECT `+citaCols+` FROM citas WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) loadLines(ctx context.Context, a *Appointment) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, estudio_id, nombre, precio, cantidad, descuento
		FROM cita_estudios WHERE cita_id = $1 ORDER BY nombre`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l AppointmentLine
		if err := rows.Scan(&l.ID, &l.EstudioID, &l.Nombre, &l.Precio, &l.Cantidad, &l.Descuento); err != nil {
			return err
		}
		a.Lines = append(a.Lines, l)
	}
	return rows.Err()
}

func (r *repoPG) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE citas SET estado=$2, updated_at=NOW() WHERE id = $1`, id, estado)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cita %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + citaCols + ` FROM citas WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM citas WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["fecha"]; ok {
		query += fmt.Sprintf(` AND fecha::date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND fecha::date = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["estado"]; ok {
		query += fmt.Sprintf(` AND estado = $%d`, idx)
		countQuery += fmt.Sprintf(` AND estado = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["pagado"]; ok {
		query += fmt.Sprintf(` AND pagado = $%d`, idx)
		countQuery += fmt.Sprintf(` AND pagado = $%d`, idx)
		args = append(args, p == "true")
		idx++
	}
	if p, ok := params["paciente_id"]; ok {
		query += fmt.Sprintf(` AND paciente_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND paciente_id = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	return r.collect(ctx, query, args, total)
}

func (r *repoPG) ListUnbilled(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	where := ` FROM citas WHERE pagado = false AND estado IN ('completada', 'programada')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + citaCols + where + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.collect(ctx, query, []interface{}{limit, offset}, total)
}

func (r *repoPG) collect(ctx context.Context, query string, args []interface{}, total int) ([]*Appointment, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanCita(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, a := range items {
		if err := r.loadLines(ctx, a); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

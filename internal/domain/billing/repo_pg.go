package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const invoiceCols = `id, numero, paciente_id, cita_id, turno_id, subtotal, cobertura, descuento,
	total, monto_pagado, metodo_pago, estado, cliente_nombre, cliente_cedula, cliente_telefono,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Numero, &inv.PacienteID, &inv.CitaID, &inv.TurnoID,
		&inv.Subtotal, &inv.Cobertura, &inv.Descuento, &inv.Total, &inv.MontoPagado,
		&inv.MetodoPago, &inv.Estado, &inv.DatosCliente.Nombre, &inv.DatosCliente.Cedula,
		&inv.DatosCliente.Telefono, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('factura_numero_seq')`).Scan(&seq); err != nil {
		return err
	}
	inv.Numero = fmt.Sprintf("F-%06d", seq)

	_, err = tx.Exec(ctx, `
		INSERT INTO facturas (id, numero, paciente_id, cita_id, turno_id, subtotal, cobertura,
			descuento, total, monto_pagado, metodo_pago, estado, cliente_nombre, cliente_cedula,
			cliente_telefono)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		inv.ID, inv.Numero, inv.PacienteID, inv.CitaID, inv.TurnoID, inv.Subtotal, inv.Cobertura,
		inv.Descuento, inv.Total, inv.MontoPagado, inv.MetodoPago, inv.Estado,
		inv.DatosCliente.Nombre, inv.DatosCliente.Cedula, inv.DatosCliente.Telefono)
	if err != nil {
		return err
	}

	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO factura_items (id, factura_id, estudio_id, descripcion, cantidad,
				precio_unitario, descuento, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			inv.Items[i].ID, inv.ID, inv.Items[i].EstudioID, inv.Items[i].Descripcion,
			inv.Items[i].Cantidad, inv.Items[i].PrecioUnitario, inv.Items[i].Descuento,
			inv.Items[i].Subtotal)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM facturas WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) GetByNumero(ctx context.Context, numero string) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM facturas WHERE numero = $1`, numero))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) loadItems(ctx context.Context, inv *Invoice) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, estudio_id, descripcion, cantidad, precio_unitario, descuento, subtotal
		FROM factura_items WHERE factura_id = $1 ORDER BY descripcion`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.EstudioID, &it.Descripcion, &it.Cantidad,
			&it.PrecioUnitario, &it.Descuento, &it.Subtotal); err != nil {
			return err
		}
		inv.Items = append(inv.Items, it)
	}
	return rows.Err()
}

func (r *repoPG) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE facturas SET estado=$2, updated_at=NOW() WHERE id = $1`, id, estado)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("factura %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	query := `SELECT ` + invoiceCols + ` FROM facturas WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM facturas WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["estado"]; ok {
		query += fmt.Sprintf(` AND estado = $%d`, idx)
		countQuery += fmt.Sprintf(` AND estado = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["paciente_id"]; ok {
		query += fmt.Sprintf(` AND paciente_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND paciente_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["numero"]; ok {
		query += fmt.Sprintf(` AND numero ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND numero ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, inv := range items {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *repoPG) SumSince(ctx context.Context, since time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM facturas
		WHERE created_at >= $1 AND estado <> 'anulada'`, since).Scan(&sum)
	return sum, err
}

func (r *repoPG) SumMonth(ctx context.Context, year int, month time.Month) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM facturas
		WHERE EXTRACT(YEAR FROM created_at) = $1
		  AND EXTRACT(MONTH FROM created_at) = $2
		  AND estado <> 'anulada'`, year, int(month)).Scan(&sum)
	return sum, err
}

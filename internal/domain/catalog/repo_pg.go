package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const studyCols = `id, codigo, nombre, precio, categoria, activo, created_at, updated_at`

func scanStudy(row pgx.Row) (*Study, error) {
	var s Study
	err := row.Scan(&s.ID, &s.Codigo, &s.Nombre, &s.Precio, &s.Categoria, &s.Activo, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Study) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO estudios (id, codigo, nombre, precio, categoria, activo)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.Codigo, s.Nombre, s.Precio, s.Categoria, s.Activo)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Study, error) {
	return scanStudy(r.pool.QueryRow(ctx, `SELECT `+studyCols+` FROM estudios WHERE id = $1`, id))
}

func (r *repoPG) GetByCodigo(ctx context.Context, codigo string) (*Study, error) {
	return scanStudy(r.pool.QueryRow(ctx, `SELECT `+studyCols+` FROM estudios WHERE codigo = $1`, codigo))
}

func (r *repoPG) Update(ctx context.Context, s *Study) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE estudios SET codigo=$2, nombre=$3, precio=$4, categoria=$5, activo=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Codigo, s.Nombre, s.Precio, s.Categoria, s.Activo)
	return err
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Study, int, error) {
	query := `SELECT ` + studyCols + ` FROM estudios WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM estudios WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["nombre"]; ok {
		query += fmt.Sprintf(` AND nombre ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND nombre ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["categoria"]; ok {
		query += fmt.Sprintf(` AND categoria = $%d`, idx)
		countQuery += fmt.Sprintf(` AND categoria = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["activo"]; ok {
		query += fmt.Sprintf(` AND activo = $%d`, idx)
		countQuery += fmt.Sprintf(` AND activo = $%d`, idx)
		args = append(args, p == "true")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY nombre LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Study
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

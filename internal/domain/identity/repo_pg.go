package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, nombre, apellido, cedula, es_menor, telefono, email,
	fecha_nacimiento, sexo, nacionalidad, tipo_sangre, direccion,
	seguro_nombre, seguro_numero_afiliado, seguro_tipo, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var segNombre, segNumero, segTipo *string
	err := row.Scan(&p.ID, &p.Nombre, &p.Apellido, &p.Cedula, &p.EsMenor, &p.Telefono, &p.Email,
		&p.FechaNacimiento, &p.Sexo, &p.Nacionalidad, &p.TipoSangre, &p.Direccion,
		&segNombre, &segNumero, &segTipo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if segNombre != nil {
		p.Seguro = &Seguro{Nombre: *segNombre}
		if segNumero != nil {
			p.Seguro.NumeroAfiliado = *segNumero
		}
		if segTipo != nil {
			p.Seguro.Tipo = *segTipo
		}
	}
	return &p, nil
}

func seguroCols(p *Patient) (nombre, numero, tipo *string) {
	if p.Seguro == nil {
		return nil, nil, nil
	}
	return &p.Seguro.Nombre, &p.Seguro.NumeroAfiliado, &p.Seguro.Tipo
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	segNombre, segNumero, segTipo := seguroCols(p)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pacientes (id, nombre, apellido, cedula, es_menor, telefono, email,
			fecha_nacimiento, sexo, nacionalidad, tipo_sangre, direccion,
			seguro_nombre, seguro_numero_afiliado, seguro_tipo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.Nombre, p.Apellido, p.Cedula, p.EsMenor, p.Telefono, p.Email,
		p.FechaNacimiento, p.Sexo, p.Nacionalidad, p.TipoSangre, p.Direccion,
		segNombre, segNumero, segTipo)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM pacientes WHERE id = $1`, id))
}

func (r *repoPG) GetByCedula(ctx context.Context, cedula string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM pacientes WHERE cedula = $1`, cedula))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	segNombre, segNumero, segTipo := seguroCols(p)
	_, err := r.pool.Exec(ctx, `
		UPDATE pacientes SET nombre=$2, apellido=$3, cedula=$4, es_menor=$5, telefono=$6,
			email=$7, fecha_nacimiento=$8, sexo=$9, nacionalidad=$10, tipo_sangre=$11,
			direccion=$12, seguro_nombre=$13, seguro_numero_afiliado=$14, seguro_tipo=$15,
			updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Nombre, p.Apellido, p.Cedula, p.EsMenor, p.Telefono,
		p.Email, p.FechaNacimiento, p.Sexo, p.Nacionalidad, p.TipoSangre,
		p.Direccion, segNombre, segNumero, segTipo)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM pacientes ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	pattern := fmt.Sprintf("%%%s%%", term)
	where := ` WHERE nombre ILIKE $1 OR apellido ILIKE $1 OR cedula ILIKE $1`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM pacientes`+where+` ORDER BY apellido, nombre LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

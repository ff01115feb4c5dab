package therapy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinscore/clinscore/internal/platform/db"
)

// ErrNotFound is returned when a log does not exist or is not visible to
// the caller.
var ErrNotFound = errors.New("therapy log not found")

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a postgres-backed therapy log repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const logCols = `id, user_id, drug_name, dosage, dosage_unit, route, status,
	administered_at, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, l *Log) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO therapy_log (id, user_id, drug_name, dosage, dosage_unit, route, status,
			administered_at, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		l.ID, l.UserID, l.DrugName, l.Dosage, l.DosageUnit, l.Route, l.Status,
		l.AdministeredAt, l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Log, error) {
	l, err := scanLog(r.conn(ctx).QueryRow(ctx,
		`SELECT `+logCols+` FROM therapy_log WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Log, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM therapy_log WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+logCols+` FROM therapy_log WHERE user_id = $1
		 ORDER BY COALESCE(administered_at, created_at) DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM therapy_log WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(
		&l.ID, &l.UserID, &l.DrugName, &l.Dosage, &l.DosageUnit, &l.Route, &l.Status,
		&l.AdministeredAt, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinscore/clinscore/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type templateRepoPG struct {
	pool *pgxpool.Pool
}

// NewTemplateRepo returns a postgres-backed template repository.
func NewTemplateRepo(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

func (r *templateRepoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const templateCols = `id, code, name, description, category, sections, scoring, bands,
	auto_advice, version, is_active, created_at, updated_at`

func (r *templateRepoPG) GetByCode(ctx context.Context, code string) (*Template, error) {
	return scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM survey_template WHERE code = $1 AND is_active`, code))
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM survey_template WHERE id = $1`, id))
}

func (r *templateRepoPG) ListActive(ctx context.Context) ([]*Template, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+templateCols+` FROM survey_template WHERE is_active ORDER BY category, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t, err := scanTemplateRow(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepoPG) Upsert(ctx context.Context, t *Template) error {
	sections, err := json.Marshal(t.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	scoring, err := json.Marshal(t.Scoring)
	if err != nil {
		return fmt.Errorf("marshal scoring: %w", err)
	}
	bands, err := json.Marshal(t.Bands)
	if err != nil {
		return fmt.Errorf("marshal bands: %w", err)
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO survey_template (
			id, code, name, description, category, sections, scoring, bands,
			auto_advice, version, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (code) DO UPDATE SET
			name=EXCLUDED.name, description=EXCLUDED.description, category=EXCLUDED.category,
			sections=EXCLUDED.sections, scoring=EXCLUDED.scoring, bands=EXCLUDED.bands,
			auto_advice=EXCLUDED.auto_advice, version=EXCLUDED.version,
			is_active=EXCLUDED.is_active, updated_at=NOW()`,
		t.ID, t.Code, t.Name, t.Description, t.Category, sections, scoring, bands,
		t.AutoAdvice, t.Version, t.IsActive,
	)
	return err
}

func scanTemplate(row pgx.Row) (*Template, error) {
	t, err := scanTemplateRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newError(KindNotFound, "survey template not found")
	}
	return t, err
}

func scanTemplateRow(row pgx.Row) (*Template, error) {
	var t Template
	var sections, scoring, bands []byte
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &t.Description, &t.Category, &sections, &scoring, &bands,
		&t.AutoAdvice, &t.Version, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &t.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	if err := json.Unmarshal(scoring, &t.Scoring); err != nil {
		return nil, fmt.Errorf("unmarshal scoring: %w", err)
	}
	if err := json.Unmarshal(bands, &t.Bands); err != nil {
		return nil, fmt.Errorf("unmarshal bands: %w", err)
	}
	return &t, nil
}

type responseRepoPG struct {
	pool *pgxpool.Pool
}

// NewResponseRepo returns a postgres-backed response repository.
func NewResponseRepo(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepoPG{pool: pool}
}

func (r *responseRepoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const responseCols = `id, template_id, user_id, answers, score, interpretation, submitted_at, created_at`

func (r *responseRepoPG) Create(ctx context.Context, resp *Response) error {
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	now := time.Now().UTC()
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = now
	}
	resp.CreatedAt = now

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO survey_response (id, template_id, user_id, answers, score, interpretation, submitted_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		resp.ID, resp.TemplateID, resp.UserID, []byte(resp.Answers), resp.Score,
		resp.Interpretation, resp.SubmittedAt, resp.CreatedAt,
	)
	return err
}

func (r *responseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	resp, err := scanResponse(r.conn(ctx).QueryRow(ctx,
		`SELECT `+responseCols+` FROM survey_response WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newError(KindNotFound, "survey response not found")
	}
	return resp, err
}

func (r *responseRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Response, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_response WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+responseCols+` FROM survey_response WHERE user_id = $1
		 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, rows.Err()
}

func scanResponse(row pgx.Row) (*Response, error) {
	var resp Response
	var answers []byte
	err := row.Scan(
		&resp.ID, &resp.TemplateID, &resp.UserID, &answers, &resp.Score,
		&resp.Interpretation, &resp.SubmittedAt, &resp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	resp.Answers = json.RawMessage(answers)
	return &resp, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Store. All entities share one records table
// (entity, id, fields jsonb) mirroring the hosted record API's generic
// collections; per-entity ID counters live in record_counters so assigned
// IDs stay strictly increasing even after the highest record is deleted.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Store backed by the given connection pool. The
// schema is managed by the migrations in db/migrations.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) GetAll(ctx context.Context, entity string) ([]Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, created_at, updated_at, fields
		FROM records
		WHERE entity = $1
		ORDER BY created_at DESC, id DESC
	`, entity)
	if err != nil {
		return nil, fmt.Errorf("fetching %s records: %w", entity, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var raw []byte
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &raw); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", entity, err)
		}
		if err := json.Unmarshal(raw, &r.Fields); err != nil {
			return nil, fmt.Errorf("decoding %s record %d: %w", entity, r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) GetByID(ctx context.Context, entity string, id int) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}

	var r Record
	var raw []byte
	err := p.pool.QueryRow(ctx, `
		SELECT id, created_at, updated_at, fields
		FROM records
		WHERE entity = $1 AND id = $2
	`, entity, id).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("fetching %s record %d: %w", entity, id, err)
	}
	if err := json.Unmarshal(raw, &r.Fields); err != nil {
		return Record{}, fmt.Errorf("decoding %s record %d: %w", entity, id, err)
	}
	return r, nil
}

func (p *Postgres) Create(ctx context.Context, entity string, fields map[string]any) (Record, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("encoding %s record: %w", entity, err)
	}
	if fields == nil {
		raw = []byte("{}")
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("beginning create: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO record_counters (entity, last_id)
		VALUES ($1, 1)
		ON CONFLICT (entity) DO UPDATE SET last_id = record_counters.last_id + 1
		RETURNING last_id
	`, entity).Scan(&id)
	if err != nil {
		return Record{}, fmt.Errorf("assigning %s record ID: %w", entity, err)
	}

	r := Record{ID: id}
	err = tx.QueryRow(ctx, `
		INSERT INTO records (entity, id, fields)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, entity, id, raw).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("inserting %s record: %w", entity, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("committing create: %w", err)
	}

	r.Fields = cloneFields(fields)
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	return r, nil
}

func (p *Postgres) Update(ctx context.Context, entity string, id int, fields map[string]any) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("encoding %s update: %w", entity, err)
	}
	if fields == nil {
		raw = []byte("{}")
	}

	var r Record
	var merged []byte
	err = p.pool.QueryRow(ctx, `
		UPDATE records
		SET fields = fields || $3::jsonb, updated_at = NOW()
		WHERE entity = $1 AND id = $2
		RETURNING id, created_at, updated_at, fields
	`, entity, id, raw).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &merged)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("updating %s record %d: %w", entity, id, err)
	}
	if err := json.Unmarshal(merged, &r.Fields); err != nil {
		return Record{}, fmt.Errorf("decoding %s record %d: %w", entity, id, err)
	}
	return r, nil
}

func (p *Postgres) Delete(ctx context.Context, entity string, id int) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}

	var r Record
	var raw []byte
	err := p.pool.QueryRow(ctx, `
		DELETE FROM records
		WHERE entity = $1 AND id = $2
		RETURNING id, created_at, updated_at, fields
	`, entity, id).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("deleting %s record %d: %w", entity, id, err)
	}
	if err := json.Unmarshal(raw, &r.Fields); err != nil {
		return Record{}, fmt.Errorf("decoding %s record %d: %w", entity, id, err)
	}
	return r, nil
}

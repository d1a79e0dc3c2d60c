package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"math-tutor/api/internal/ai/types"
)

type SeedRepo struct{ DB *sql.DB }

func NewSeedRepo(db *sql.DB) *SeedRepo { return &SeedRepo{DB: db} }

// Find returns the cached seed content for (language, engine, model).
// Stale rows (older than maxAge when maxAge > 0) read as ErrNotFound.
func (r *SeedRepo) Find(ctx context.Context, lang types.Language, engine, model string, maxAge time.Duration) (types.InitialDataResponse, error) {
	const q = `select result_json, created_at
	           from seed_content
	           where language=$1 and engine=$2 and model=$3`
	var (
		js []byte
		ts time.Time
	)
	if err := r.DB.QueryRowContext(ctx, q, string(lang), engine, model).Scan(&js, &ts); err != nil {
		return types.InitialDataResponse{}, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return types.InitialDataResponse{}, ErrNotFound
	}
	var out types.InitialDataResponse
	if err := json.Unmarshal(js, &out); err != nil {
		return types.InitialDataResponse{}, ErrNotFound
	}
	return out, nil
}

// Upsert stores or refreshes the seed content for a language.
// PK: (language, engine, model).
func (r *SeedRepo) Upsert(ctx context.Context, lang types.Language, engine, model string, out types.InitialDataResponse) error {
	js, _ := json.Marshal(out)
	const q = `
insert into seed_content(language, engine, model, result_json)
values ($1,$2,$3,$4)
on conflict (language, engine, model)
do update set result_json=excluded.result_json, created_at=now()`
	_, err := r.DB.ExecContext(ctx, q, string(lang), engine, model, js)
	return err
}

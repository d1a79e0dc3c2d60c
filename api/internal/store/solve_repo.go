package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"math-tutor/api/internal/ai/types"
)

var ErrNotFound = sql.ErrNoRows

type SolveRepo struct{ DB *sql.DB }

func NewSolveRepo(db *sql.DB) *SolveRepo { return &SolveRepo{DB: db} }

// Find returns the cached solution for (problemHash, engine, model,
// language). If maxAge > 0 and the row is older, it returns ErrNotFound so
// the caller re-solves.
func (r *SolveRepo) Find(ctx context.Context, problemHash, engine, model string, lang types.Language, maxAge time.Duration) (types.SolveResponse, error) {
	const q = `select result_json, created_at
	           from solved_problems
	           where problem_hash=$1 and engine=$2 and model=$3 and language=$4`
	var (
		js []byte
		ts time.Time
	)
	if err := r.DB.QueryRowContext(ctx, q, problemHash, engine, model, string(lang)).Scan(&js, &ts); err != nil {
		return types.SolveResponse{}, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return types.SolveResponse{}, ErrNotFound
	}
	var sr types.SolveResponse
	if err := json.Unmarshal(js, &sr); err != nil {
		// Corrupt cache rows read as not found
		return types.SolveResponse{}, ErrNotFound
	}
	return sr, nil
}

// Upsert stores or refreshes a solution.
// PK: (problem_hash, engine, model, language).
func (r *SolveRepo) Upsert(ctx context.Context, problemHash, engine, model string, lang types.Language, sr types.SolveResponse) error {
	js, _ := json.Marshal(sr)
	const q = `
insert into solved_problems(problem_hash, engine, model, language, result_json)
values ($1,$2,$3,$4,$5)
on conflict (problem_hash, engine, model, language)
do update set result_json=excluded.result_json, created_at=now()`
	_, err := r.DB.ExecContext(ctx, q, problemHash, engine, model, string(lang), js)
	return err
}

// PurgeOlderThan drops very old cache rows so the table does not grow
// without bound.
func (r *SolveRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from solved_problems where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

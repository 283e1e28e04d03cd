package history

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one recorded conversion.
type Entry struct {
	ID        string
	Source    string
	Target    string
	Base      string
	Amount    float64
	Result    float64
	CreatedAt time.Time
}

// Repo handles the conversions ledger.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO conversions(id, source, target, base, amount, result, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, e.ID, e.Source, e.Target, e.Base, e.Amount, e.Result, e.CreatedAt.UTC())
	return err
}

// Recent returns the newest entries first, capped at limit.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, source, target, base, amount, result, created_at
	FROM conversions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &e.Base, &e.Amount, &e.Result, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

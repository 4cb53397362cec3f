package repository

import (
	"context"
	"database/sql"
)

// ReportRepo handles uploaded report records.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Insert(ctx context.Context, rep Report) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO reports(id, filename, platform, imported, skipped, created_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, rep.ID, rep.Filename, rep.Platform, rep.Imported, rep.Skipped)
	return err
}

// UpdateCounts records the per-file outcome once all rows are in.
func (r *ReportRepo) UpdateCounts(ctx context.Context, id string, imported, skipped int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reports SET imported = ?, skipped = ? WHERE id = ?`,
		imported, skipped, id)
	return err
}

func (r *ReportRepo) List(ctx context.Context) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, filename, platform, imported, skipped, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.Filename, &rep.Platform, &rep.Imported, &rep.Skipped, &rep.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

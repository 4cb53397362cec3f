package repository

import (
	"context"
	"database/sql"
	"strings"
)

// CampaignFilters defines list filters.
type CampaignFilters struct {
	Platform string
	ReportID string
	Search   string // matches subject or title
}

// CampaignRepo handles campaigns.
type CampaignRepo struct {
	db *sql.DB
}

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `id, report_id, platform, external_id, subject, title, sent_at,
 delivered, opens, open_rate, clicks, click_rate, ctor,
 unsubscribes, unsubscribe_rate, spam_complaints,
 hard_bounces, hard_bounce_rate, soft_bounces, soft_bounce_rate,
 source_hash, created_at, updated_at`

func (r *CampaignRepo) Insert(ctx context.Context, c Campaign) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO campaigns(
	 id, report_id, platform, external_id, subject, title, sent_at,
	 delivered, opens, open_rate, clicks, click_rate, ctor,
	 unsubscribes, unsubscribe_rate, spam_complaints,
	 hard_bounces, hard_bounce_rate, soft_bounces, soft_bounce_rate,
	 source_hash, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		c.ID, c.ReportID, c.Platform, c.ExternalID, c.Subject, c.Title, c.SentAt,
		c.Delivered, c.Opens, c.OpenRate, c.Clicks, c.ClickRate, c.CTOR,
		c.Unsubscribes, c.UnsubscribeRate, c.SpamComplaints,
		c.HardBounces, c.HardBounceRate, c.SoftBounces, c.SoftBounceRate,
		c.SourceHash)
	return err
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilters) ([]Campaign, error) {
	var where []string
	var args []interface{}

	if f.Platform != "" {
		where = append(where, "platform = ?")
		args = append(args, f.Platform)
	}
	if f.ReportID != "" {
		where = append(where, "report_id = ?")
		args = append(args, f.ReportID)
	}
	if f.Search != "" {
		where = append(where, "(subject LIKE ? OR title LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT " + campaignColumns + " FROM campaigns"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sent_at ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) Get(ctx context.Context, id string) (*Campaign, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+campaignColumns+" FROM campaigns WHERE id = ?", id)
	c, err := scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns`).Scan(&n)
	return n, err
}

// scanCampaign handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row scanner) (Campaign, error) {
	var c Campaign
	var external sql.NullString
	if err := row.Scan(&c.ID, &c.ReportID, &c.Platform, &external, &c.Subject, &c.Title, &c.SentAt,
		&c.Delivered, &c.Opens, &c.OpenRate, &c.Clicks, &c.ClickRate, &c.CTOR,
		&c.Unsubscribes, &c.UnsubscribeRate, &c.SpamComplaints,
		&c.HardBounces, &c.HardBounceRate, &c.SoftBounces, &c.SoftBounceRate,
		&c.SourceHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Campaign{}, err
	}
	if external.Valid {
		c.ExternalID = &external.String
	}
	return c, nil
}

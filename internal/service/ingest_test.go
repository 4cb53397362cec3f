package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/derekology/simple-dash/internal/database"
	"github.com/derekology/simple-dash/internal/database/repository"
)

const mailchimpCSV = `Subject,Title,Unique Id,Send Date,Successful Deliveries,Open Rate,Unique Opens,Click Rate,Unique Clicks,Hard Bounces,Soft Bounces,Unsubscribes,Abuse Complaints
Big spring sale,Spring Sale 2024,abc123,"Apr 02, 2024 9:00 am",2400,42.5%,1020,6.25%,150,12,8,5,1
Weekly digest #12,Digest 12,def456,"Apr 09, 2024 9:00 am",1800,38%,684,4%,72,0,3,2,0
`

func newTestDB(t *testing.T) (*repository.CampaignRepo, *repository.ReportRepo, *IngestService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	campaigns := repository.NewCampaignRepo(db)
	reports := repository.NewReportRepo(db)
	return campaigns, reports, &IngestService{Campaigns: campaigns, Reports: reports}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportFiles(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	campaigns, reports, svc := newTestDB(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "mailchimp_report.csv", mailchimpCSV)

	res, err := svc.ImportFiles(ctx, []string{path})
	require.NoError(t, err)
	require.Empty(t, res.FileErrors)
	require.Empty(t, res.RowErrors)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)

	rows, err := campaigns.List(ctx, repository.CampaignFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	bySubject := map[string]repository.Campaign{}
	for _, c := range rows {
		bySubject[c.Subject] = c
	}
	sale := bySubject["Big spring sale"]
	require.Equal(t, "mailchimp", sale.Platform)
	require.Equal(t, 2400, sale.Delivered)
	require.InDelta(t, 0.425, sale.OpenRate, 1e-9)
	require.NotNil(t, sale.ExternalID)
	require.Equal(t, "abc123", *sale.ExternalID)
	require.NotEmpty(t, sale.SourceHash)

	recs, err := reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "mailchimp_report.csv", recs[0].Filename)
	require.Equal(t, 2, recs[0].Imported)
	for _, c := range rows {
		require.Equal(t, recs[0].ID, c.ReportID)
	}

	// re-import skips duplicates via source hash
	res2, err := svc.ImportFiles(ctx, []string{path})
	require.NoError(t, err)
	require.Equal(t, 0, res2.Imported)
	require.Equal(t, 2, res2.Skipped)
}

func TestImportFilesRejectsBadFilesButContinues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newTestDB(t)
	dir := t.TempDir()

	good := writeFile(t, dir, "good.csv", mailchimpCSV)
	wrongExt := writeFile(t, dir, "notes.txt", "hello")
	unknown := writeFile(t, dir, "random.csv", "a,b,c\n1,2,3\n")

	res, err := svc.ImportFiles(ctx, []string{wrongExt, unknown, good})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Len(t, res.FileErrors, 2)
	names := []string{res.FileErrors[0].Filename, res.FileErrors[1].Filename}
	require.ElementsMatch(t, []string{"notes.txt", "random.csv"}, names)
}

func TestImportFilesEnforcesLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newTestDB(t)
	svc.Limits = Limits{MaxFiles: 1, MaxFileBytes: 64}
	dir := t.TempDir()

	a := writeFile(t, dir, "a.csv", mailchimpCSV)
	b := writeFile(t, dir, "b.csv", mailchimpCSV)
	_, err := svc.ImportFiles(ctx, []string{a, b})
	require.ErrorContains(t, err, "too many files")

	res, err := svc.ImportFiles(ctx, []string{a})
	require.NoError(t, err)
	require.Zero(t, res.Imported)
	require.Len(t, res.FileErrors, 1)
	require.ErrorContains(t, res.FileErrors[0].Err, "file too large")
}

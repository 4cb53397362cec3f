package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/derekology/simple-dash/internal/database/repository"
	"github.com/derekology/simple-dash/internal/report"
)

// Limits caps one import batch. Zero values fall back to the package
// defaults.
type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
}

const (
	defaultMaxFiles     = 12
	defaultMaxFileBytes = 10 * 1024 * 1024
)

func (l Limits) maxFiles() int {
	if l.MaxFiles > 0 {
		return l.MaxFiles
	}
	return defaultMaxFiles
}

func (l Limits) maxFileBytes() int64 {
	if l.MaxFileBytes > 0 {
		return l.MaxFileBytes
	}
	return defaultMaxFileBytes
}

// IngestService imports campaign report CSVs.
type IngestService struct {
	Campaigns *repository.CampaignRepo
	Reports   *repository.ReportRepo
	Limits    Limits
	Log       *zap.Logger
}

// FileError records why one file was rejected; the rest of the batch
// still imports.
type FileError struct {
	Filename string
	Err      error
}

func (e FileError) Error() string { return e.Filename + ": " + e.Err.Error() }

// IngestResult accumulates per-batch outcomes.
type IngestResult struct {
	Imported   int
	Skipped    int
	FileErrors []FileError
	RowErrors  []error
}

// ImportFiles ingests a batch of report files. Per-file failures (wrong
// extension, oversized, unrecognized format) are collected, not fatal;
// only exceeding the batch file limit aborts the whole call.
func (s *IngestService) ImportFiles(ctx context.Context, paths []string) (IngestResult, error) {
	res := IngestResult{}
	if len(paths) > s.Limits.maxFiles() {
		return res, fmt.Errorf("too many files: maximum %d files allowed per import", s.Limits.maxFiles())
	}
	for _, path := range paths {
		if err := s.importOne(ctx, path, &res); err != nil {
			res.FileErrors = append(res.FileErrors, FileError{Filename: filepath.Base(path), Err: err})
			s.logWarn("file rejected", zap.String("file", filepath.Base(path)), zap.Error(err))
		}
	}
	return res, nil
}

func (s *IngestService) importOne(ctx context.Context, path string, res *IngestResult) error {
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return fmt.Errorf("only CSV files supported")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	limit := s.Limits.maxFileBytes()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("file too large: maximum size is %dMB", limit/(1024*1024))
	}

	text := string(data)
	platform, err := report.Detect(text)
	if err != nil {
		return err
	}
	campaigns, err := report.DetectAndParse(text)
	if err != nil {
		return err
	}

	rep := repository.Report{
		ID:       uuid.NewString(),
		Filename: filepath.Base(path),
		Platform: string(platform),
	}
	// the report row must exist before its campaigns: campaigns.report_id
	// carries a foreign key and the db opens with foreign keys enforced
	if err := s.Reports.Insert(ctx, rep); err != nil {
		return fmt.Errorf("record report: %w", err)
	}

	imported, skipped := 0, 0
	for _, c := range campaigns {
		row := toCampaignRow(c, rep.ID)
		if err := s.Campaigns.Insert(ctx, row); err != nil {
			// duplicate campaigns (re-uploaded reports) skip on the
			// source_hash unique constraint
			if strings.Contains(err.Error(), "UNIQUE") {
				skipped++
				continue
			}
			res.RowErrors = append(res.RowErrors, fmt.Errorf("%s: insert %q: %w", rep.Filename, c.Subject, err))
			continue
		}
		imported++
	}

	if err := s.Reports.UpdateCounts(ctx, rep.ID, imported, skipped); err != nil {
		return fmt.Errorf("record report counts: %w", err)
	}

	res.Imported += imported
	res.Skipped += skipped
	s.logInfo("file imported",
		zap.String("file", rep.Filename),
		zap.String("platform", rep.Platform),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))
	return nil
}

func toCampaignRow(c report.Campaign, reportID string) repository.Campaign {
	row := repository.Campaign{
		ID:              uuid.NewString(),
		ReportID:        reportID,
		Platform:        string(c.Platform),
		Subject:         c.Subject,
		Title:           c.Title,
		SentAt:          c.SentAt,
		Delivered:       c.Delivered,
		Opens:           c.Opens,
		OpenRate:        c.OpenRate,
		Clicks:          c.Clicks,
		ClickRate:       c.ClickRate,
		CTOR:            c.CTOR,
		Unsubscribes:    c.Unsubscribes,
		UnsubscribeRate: c.UnsubscribeRate,
		SpamComplaints:  c.SpamComplaints,
		HardBounces:     c.HardBounces,
		HardBounceRate:  c.HardBounceRate,
		SoftBounces:     c.SoftBounces,
		SoftBounceRate:  c.SoftBounceRate,
		SourceHash:      hashSource(string(c.Platform), c.UniqueID, c.Subject, c.SentAt, fmt.Sprintf("%d", c.Delivered)),
	}
	if id := strings.TrimSpace(c.UniqueID); id != "" {
		row.ExternalID = &id
	}
	return row
}

func hashSource(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", sum[:])
}

func (s *IngestService) logInfo(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Info(msg, fields...)
	}
}

func (s *IngestService) logWarn(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Warn(msg, fields...)
	}
}

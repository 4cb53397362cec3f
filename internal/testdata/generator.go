package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/derekology/simple-dash/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Reports   *repository.ReportRepo
	Campaigns *repository.CampaignRepo
}

// Seed creates one sample report with a spread of campaigns: a normal
// cluster, a couple of low-volume sends and one open-rate outlier, so
// both bulk toggles have members out of the box.
func Seed(ctx context.Context, repos Repos, rng *rand.Rand) error {
	rep := repository.Report{
		ID:       uuid.NewString(),
		Filename: "sample_report.csv",
		Platform: "mailchimp",
	}
	// parent row first, campaigns carry a foreign key to it
	if err := repos.Reports.Insert(ctx, rep); err != nil {
		return err
	}

	type sample struct {
		title     string
		delivered int
		openRate  float64
	}
	samples := []sample{
		{title: "Welcome series #1", delivered: 4200, openRate: 0.41},
		{title: "Welcome series #2", delivered: 4100, openRate: 0.39},
		{title: "Monthly newsletter", delivered: 5200, openRate: 0.43},
		{title: "Product update", delivered: 4800, openRate: 0.40},
		{title: "Flash sale", delivered: 5000, openRate: 0.92}, // outlier
		{title: "Beta invite", delivered: 180, openRate: 0.44}, // low volume
		{title: "Churn winback", delivered: 95, openRate: 0.12},
	}

	imported := 0
	for i, sp := range samples {
		opens := int(float64(sp.delivered) * sp.openRate)
		clicks := opens / 5
		c := repository.Campaign{
			ID:         uuid.NewString(),
			ReportID:   rep.ID,
			Platform:   "mailchimp",
			Subject:    sp.title + " - don't miss it",
			Title:      sp.title,
			SentAt:     fmt.Sprintf("Apr %02d, 2024 9:00 am", i+1),
			Delivered:  sp.delivered,
			Opens:      opens,
			OpenRate:   sp.openRate,
			Clicks:     clicks,
			ClickRate:  sp.openRate / 5,
			SourceHash: uuid.NewString(),
		}
		if sp.delivered > 0 {
			c.CTOR = float64(clicks) / float64(opens)
			c.Unsubscribes = rng.Intn(5)
			c.UnsubscribeRate = float64(c.Unsubscribes) / float64(sp.delivered)
		}
		if err := repos.Campaigns.Insert(ctx, c); err != nil {
			return err
		}
		imported++
	}
	return repos.Reports.UpdateCounts(ctx, rep.ID, imported, 0)
}

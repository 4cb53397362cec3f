package service

import (
	"sort"

	"github.com/derekology/simple-dash/internal/database/repository"
)

// StatsService derives the aggregate numbers the dashboard renders and
// the category id sets (outliers, low volume) fed into the campaign
// picker's bulk toggles. All methods are pure functions of their input.
type StatsService struct {
	LowVolumeThreshold   int     // delivered below this is "low volume"; default 500
	OutlierIQRMultiplier float64 // Tukey fence multiplier; default 1.5
}

const (
	defaultLowVolumeThreshold   = 500
	defaultOutlierIQRMultiplier = 1.5
)

// Summary holds dashboard-level aggregates.
type Summary struct {
	Campaigns       int
	Delivered       int
	Opens           int
	Clicks          int
	Unsubscribes    int
	AvgOpenRate     float64 // weighted by delivered
	AvgClickRate    float64 // weighted by delivered
	TotalHardBounce int
	TotalSoftBounce int
}

// Summarize computes totals and delivery-weighted average rates.
func (s *StatsService) Summarize(campaigns []repository.Campaign) Summary {
	out := Summary{Campaigns: len(campaigns)}
	for _, c := range campaigns {
		out.Delivered += c.Delivered
		out.Opens += c.Opens
		out.Clicks += c.Clicks
		out.Unsubscribes += c.Unsubscribes
		out.TotalHardBounce += c.HardBounces
		out.TotalSoftBounce += c.SoftBounces
	}
	if out.Delivered > 0 {
		out.AvgOpenRate = float64(out.Opens) / float64(out.Delivered)
		out.AvgClickRate = float64(out.Clicks) / float64(out.Delivered)
	}
	return out
}

// OutlierIDs returns ids of campaigns whose open rate falls outside the
// Tukey fences (Q1 - k*IQR, Q3 + k*IQR) of the batch. Needs at least
// four campaigns to say anything meaningful; fewer yields no outliers.
func (s *StatsService) OutlierIDs(campaigns []repository.Campaign) []string {
	if len(campaigns) < 4 {
		return nil
	}
	k := s.OutlierIQRMultiplier
	if k <= 0 {
		k = defaultOutlierIQRMultiplier
	}

	rates := make([]float64, len(campaigns))
	for i, c := range campaigns {
		rates[i] = c.OpenRate
	}
	sort.Float64s(rates)
	q1 := quantile(rates, 0.25)
	q3 := quantile(rates, 0.75)
	iqr := q3 - q1
	lo := q1 - k*iqr
	hi := q3 + k*iqr

	var out []string
	for _, c := range campaigns {
		if c.OpenRate < lo || c.OpenRate > hi {
			out = append(out, c.ID)
		}
	}
	return out
}

// LowVolumeIDs returns ids of campaigns delivered to fewer recipients
// than the threshold.
func (s *StatsService) LowVolumeIDs(campaigns []repository.Campaign) []string {
	threshold := s.LowVolumeThreshold
	if threshold <= 0 {
		threshold = defaultLowVolumeThreshold
	}
	var out []string
	for _, c := range campaigns {
		if c.Delivered < threshold {
			out = append(out, c.ID)
		}
	}
	return out
}

// quantile interpolates linearly over sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

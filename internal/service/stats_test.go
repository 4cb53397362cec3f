package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/derekology/simple-dash/internal/database/repository"
)

func campaignsWithOpenRates(rates ...float64) []repository.Campaign {
	out := make([]repository.Campaign, len(rates))
	for i, r := range rates {
		out[i] = repository.Campaign{
			ID:        fmt.Sprintf("c%d", i),
			OpenRate:  r,
			Delivered: 1000,
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := &StatsService{}
	sum := s.Summarize([]repository.Campaign{
		{Delivered: 1000, Opens: 400, Clicks: 50, Unsubscribes: 3, HardBounces: 10, SoftBounces: 5},
		{Delivered: 500, Opens: 100, Clicks: 10, Unsubscribes: 1, HardBounces: 2, SoftBounces: 1},
	})
	require.Equal(t, 2, sum.Campaigns)
	require.Equal(t, 1500, sum.Delivered)
	require.Equal(t, 500, sum.Opens)
	require.InDelta(t, float64(500)/1500, sum.AvgOpenRate, 1e-9)
	require.InDelta(t, float64(60)/1500, sum.AvgClickRate, 1e-9)
	require.Equal(t, 12, sum.TotalHardBounce)
}

func TestSummarizeEmpty(t *testing.T) {
	s := &StatsService{}
	sum := s.Summarize(nil)
	require.Zero(t, sum.Campaigns)
	require.Zero(t, sum.AvgOpenRate)
}

func TestOutlierIDs(t *testing.T) {
	s := &StatsService{}

	// tight cluster plus one extreme value
	campaigns := campaignsWithOpenRates(0.40, 0.41, 0.42, 0.43, 0.44, 0.95)
	require.Equal(t, []string{"c5"}, s.OutlierIDs(campaigns))

	// uniform rates produce no outliers
	require.Empty(t, s.OutlierIDs(campaignsWithOpenRates(0.4, 0.4, 0.4, 0.4, 0.4)))

	// too few campaigns to judge
	require.Empty(t, s.OutlierIDs(campaignsWithOpenRates(0.1, 0.9)))
}

func TestOutlierIDsRespectsMultiplier(t *testing.T) {
	campaigns := campaignsWithOpenRates(0.30, 0.40, 0.45, 0.50, 0.60)
	strict := &StatsService{OutlierIQRMultiplier: 0.5}
	loose := &StatsService{OutlierIQRMultiplier: 10}
	require.NotEmpty(t, strict.OutlierIDs(campaigns))
	require.Empty(t, loose.OutlierIDs(campaigns))
}

func TestLowVolumeIDs(t *testing.T) {
	s := &StatsService{}
	campaigns := []repository.Campaign{
		{ID: "big", Delivered: 5000},
		{ID: "small", Delivered: 120},
		{ID: "edge", Delivered: 500},
	}
	require.Equal(t, []string{"small"}, s.LowVolumeIDs(campaigns))

	custom := &StatsService{LowVolumeThreshold: 501}
	require.ElementsMatch(t, []string{"small", "edge"}, custom.LowVolumeIDs(campaigns))
}

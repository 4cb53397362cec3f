package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleOneAddsAndRemoves(t *testing.T) {
	var emitted [][]string
	s := NewController(testCatalog(), func(ids []string) { emitted = append(emitted, ids) })

	s.ToggleOne("0")
	require.Equal(t, []string{"0"}, s.Selected())
	s.ToggleOne("1")
	require.Equal(t, []string{"0", "1"}, s.Selected())
	s.ToggleOne("0")
	require.Equal(t, []string{"1"}, s.Selected())

	// every mutation emitted the complete set, not a delta
	require.Equal(t, [][]string{{"0"}, {"0", "1"}, {"1"}}, emitted)
}

func TestToggleOneUnknownIDIsNoOp(t *testing.T) {
	calls := 0
	s := NewController(testCatalog(), func([]string) { calls++ })
	s.ToggleOne("99")
	require.Empty(t, s.Selected())
	require.Zero(t, calls)
}

func TestSetFromExternalIntersectsAndKeepsOrder(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.SetFromExternal([]string{"2", "stale", "0", "2"})
	require.Equal(t, []string{"2", "0"}, s.Selected())
}

func TestSelectionStaysSubsetOfCatalog(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.SetFromExternal([]string{"0", "1", "2"})
	s.ToggleOne("missing")
	s.ToggleCategory([]string{"1", "also-missing"})
	s.SelectAllVisible([]string{"ghost", "2"})
	for _, id := range s.Selected() {
		require.True(t, s.IsSelected(id))
		_, ok := testCatalog().ByID(id)
		require.True(t, ok, "selected id %q not in catalog", id)
	}
}

func TestToggleCategorySelectsThenDeselects(t *testing.T) {
	s := NewController(testCatalog(), nil)
	outliers := []string{"1", "2"}

	s.ToggleCategory(outliers)
	require.ElementsMatch(t, outliers, s.Selected())
	require.True(t, s.AllSelected(outliers))

	s.ToggleCategory(outliers)
	require.Empty(t, s.Selected())
}

func TestToggleCategoryUnionPreservesUnrelated(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.ToggleOne("0")
	s.ToggleCategory([]string{"1", "2"})
	require.Equal(t, []string{"0", "1", "2"}, s.Selected())

	// full category deselect must leave the unrelated id alone
	s.ToggleCategory([]string{"1", "2"})
	require.Equal(t, []string{"0"}, s.Selected())
}

func TestToggleCategoryCompletesPartialSelection(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.ToggleOne("1")
	s.ToggleCategory([]string{"1", "2"})
	// not fully selected, so the click adds the rest rather than removing
	require.ElementsMatch(t, []string{"1", "2"}, s.Selected())
}

func TestToggleCategoryInvolution(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
	}{
		{name: "from empty", initial: nil},
		{name: "from full category", initial: []string{"1", "2"}},
		{name: "with unrelated selection", initial: []string{"0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewController(testCatalog(), nil)
			s.SetFromExternal(tt.initial)
			before := s.Selected()
			s.ToggleCategory([]string{"1", "2"})
			s.ToggleCategory([]string{"1", "2"})
			require.ElementsMatch(t, before, s.Selected())
		})
	}
}

func TestToggleCategoryEmptyOrStaleIsNoOp(t *testing.T) {
	calls := 0
	s := NewController(testCatalog(), func([]string) { calls++ })
	s.ToggleCategory(nil)
	s.ToggleCategory([]string{"gone-a", "gone-b"})
	require.Empty(t, s.Selected())
	require.Zero(t, calls)
}

func TestClearEmitsEmptySet(t *testing.T) {
	var last []string
	emitted := false
	s := NewController(testCatalog(), func(ids []string) { last, emitted = ids, true })
	s.SetFromExternal([]string{"0", "1"})
	s.Clear()
	require.True(t, emitted)
	require.Empty(t, last)
	require.Zero(t, s.Count())
}

func TestSelectAllVisible(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.ToggleOne("2")
	visible := IDs(Filter(testCatalog(), "campaign"))
	s.SelectAllVisible(visible)
	require.ElementsMatch(t, []string{"0", "1", "2"}, s.Selected())

	// already covered: no further change, no emit
	calls := 0
	s.onChange = func([]string) { calls++ }
	s.SelectAllVisible(visible)
	require.Zero(t, calls)
}

func TestSetCatalogDropsStaleSilently(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.SetFromExternal([]string{"0", "1"})

	s.SetCatalog(NewCatalog([]Option{
		{ID: "0", Label: "Campaign 1", Subtitle: "Subject 1"},
		{ID: "2", Label: "Campaign 3", Subtitle: "Subject 3"},
	}))
	require.Equal(t, []string{"0"}, s.Selected())
	require.False(t, s.IsSelected("1"))
}

func TestSummaryLabel(t *testing.T) {
	s := NewController(testCatalog(), nil)

	require.Equal(t, "Select campaigns...", s.SummaryLabel("Select campaigns...", ""))

	s.SetFromExternal([]string{"1"})
	require.Equal(t, "Campaign 2", s.SummaryLabel("Select campaigns...", ""))

	s.SetFromExternal([]string{"0", "1"})
	require.Equal(t, "2 campaigns selected", s.SummaryLabel("Select campaigns...", ""))
	require.Equal(t, "2 reports selected", s.SummaryLabel("Select campaigns...", "reports"))
}

func TestSelectedRoundTripsExternalOrder(t *testing.T) {
	s := NewController(testCatalog(), nil)
	s.SetFromExternal([]string{"2", "0", "1"})
	require.Equal(t, []string{"2", "0", "1"}, s.Selected())
}

func TestBulkActionEnabled(t *testing.T) {
	require.False(t, BulkAction{}.Enabled())
	require.True(t, BulkAction{Show: true, Label: "Select outliers"}.Enabled())
}

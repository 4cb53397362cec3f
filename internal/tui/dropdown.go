package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/derekology/simple-dash/internal/selection"
)

var (
	dropdownHeaderStyle = lipgloss.NewStyle().Bold(true)
	dropdownBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dropdownHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bulkActiveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Dropdown is the multi-criteria campaign picker: a search box over the
// catalog, per-row toggling, and optional bulk toggles for the outlier
// and low-volume categories. Selection state lives in the embedded
// controller; the widget owns only presentation state (open flag, query,
// cursor).
type Dropdown struct {
	ctrl        *selection.Controller
	catalog     selection.Catalog
	input       textinput.Model
	cursor      int
	open        bool
	placeholder string
	noun        string

	Outliers  selection.BulkAction
	LowVolume selection.BulkAction

	// notification hooks, fired in addition to the controller's
	// selection-changed emit so the caller can tell which bulk action
	// was taken
	OnToggleOutliers  func()
	OnToggleLowVolume func()
}

// NewDropdown builds a picker over catalog. onChange receives the
// complete selection after every user-driven change.
func NewDropdown(catalog selection.Catalog, placeholder string, onChange func([]string)) *Dropdown {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "type to filter"
	input.CharLimit = 80
	if placeholder == "" {
		placeholder = "Select campaigns..."
	}
	return &Dropdown{
		ctrl:        selection.NewController(catalog, onChange),
		catalog:     catalog,
		input:       input,
		placeholder: placeholder,
		noun:        "campaigns",
	}
}

// SetCatalog swaps in a fresh catalog snapshot; stale selected ids drop
// silently and the current query re-applies against the new options.
func (d *Dropdown) SetCatalog(catalog selection.Catalog) {
	d.catalog = catalog
	d.ctrl.SetCatalog(catalog)
	d.clampCursor()
}

// SetSelected syncs the widget to an externally supplied selection.
func (d *Dropdown) SetSelected(ids []string) {
	d.ctrl.SetFromExternal(ids)
}

// Selected returns the current selection in working order.
func (d *Dropdown) Selected() []string { return d.ctrl.Selected() }

// IsOpen reports whether the option list is expanded.
func (d *Dropdown) IsOpen() bool { return d.open }

// Open expands the list and focuses the search box.
func (d *Dropdown) Open() {
	d.open = true
	d.cursor = 0
	d.input.Focus()
}

// Close collapses the list. The query resets so the next open starts
// from the full catalog.
func (d *Dropdown) Close() {
	d.open = false
	d.input.SetValue("")
	d.input.Blur()
	d.cursor = 0
}

// Visible returns the options passing the current query.
func (d *Dropdown) Visible() []selection.Option {
	return selection.Filter(d.catalog, d.input.Value())
}

// HandleKey processes one key press. It reports whether the key was
// consumed; unconsumed keys belong to the hosting view.
func (d *Dropdown) HandleKey(msg tea.KeyMsg) bool {
	if !d.open {
		switch msg.String() {
		case "enter", " ":
			d.Open()
			return true
		}
		return false
	}

	switch msg.String() {
	case "esc":
		d.Close()
		return true
	case "up", "ctrl+p":
		if d.cursor > 0 {
			d.cursor--
		}
		return true
	case "down", "ctrl+n":
		if d.cursor < len(d.Visible())-1 {
			d.cursor++
		}
		return true
	case "enter", "tab":
		visible := d.Visible()
		if d.cursor >= 0 && d.cursor < len(visible) {
			d.ctrl.ToggleOne(visible[d.cursor].ID)
		}
		return true
	case "ctrl+a":
		d.ctrl.SelectAllVisible(selection.IDs(d.Visible()))
		return true
	case "ctrl+x":
		d.ctrl.Clear()
		return true
	case "ctrl+o":
		d.toggleBulk(d.Outliers, d.OnToggleOutliers)
		return true
	case "ctrl+l":
		d.toggleBulk(d.LowVolume, d.OnToggleLowVolume)
		return true
	}

	before := d.input.Value()
	d.input, _ = d.input.Update(msg)
	if d.input.Value() != before {
		d.clampCursor()
	}
	return true
}

func (d *Dropdown) toggleBulk(action selection.BulkAction, hook func()) {
	// an empty category is a complete no-op: no selection change, no
	// notification
	if !action.Enabled() || len(action.IDs) == 0 {
		return
	}
	d.ctrl.ToggleCategory(action.IDs)
	if hook != nil {
		hook()
	}
}

func (d *Dropdown) clampCursor() {
	if max := len(d.Visible()) - 1; d.cursor > max {
		d.cursor = max
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// HeaderLabel is the collapsed-state text: placeholder, single label, or
// "<n> campaigns selected".
func (d *Dropdown) HeaderLabel() string {
	return d.ctrl.SummaryLabel(d.placeholder, d.noun)
}

// View renders the widget. Collapsed it is a single header line; open it
// adds the search box, bulk buttons and the filtered option rows.
func (d *Dropdown) View(width int) string {
	header := dropdownHeaderStyle.Render("Campaigns: ") + d.HeaderLabel()
	if !d.open {
		return header + dropdownHintStyle.Render("  (enter to edit)")
	}

	var lines []string
	lines = append(lines, d.input.View())

	if bulk := d.bulkRow(); bulk != "" {
		lines = append(lines, bulk)
	}

	visible := d.Visible()
	if len(visible) == 0 {
		lines = append(lines, dropdownHintStyle.Render("no campaigns match"))
	}
	for i, o := range visible {
		mark := "[ ]"
		if d.ctrl.IsSelected(o.ID) {
			mark = "[x]"
		}
		prefix := "  "
		if i == d.cursor {
			prefix = "> "
		}
		row := prefix + mark + " " + o.Label
		if o.Subtitle != "" {
			row += dropdownHintStyle.Render("  " + o.Subtitle)
		}
		lines = append(lines, row)
	}

	lines = append(lines, dropdownHintStyle.Render(
		"enter toggle  ctrl+a all visible  ctrl+x clear  esc close"))

	body := strings.Join(lines, "\n")
	if width > 0 {
		return header + "\n" + dropdownBoxStyle.Width(width-dropdownBoxStyle.GetHorizontalFrameSize()).Render(body)
	}
	return header + "\n" + dropdownBoxStyle.Render(body)
}

// bulkRow renders whichever bulk buttons are configured. A category with
// no members still shows with count 0; toggling it does nothing.
func (d *Dropdown) bulkRow() string {
	var parts []string
	if d.Outliers.Enabled() {
		parts = append(parts, d.bulkButton("ctrl+o", d.Outliers))
	}
	if d.LowVolume.Enabled() {
		parts = append(parts, d.bulkButton("ctrl+l", d.LowVolume))
	}
	return strings.Join(parts, "  ")
}

func (d *Dropdown) bulkButton(key string, action selection.BulkAction) string {
	label := action.Label
	if label == "" {
		label = "Toggle"
	}
	text := fmt.Sprintf("[%s] %s (%d)", key, label, action.Count)
	if d.ctrl.AllSelected(action.IDs) {
		return bulkActiveStyle.Render(text)
	}
	return text
}

package selection

// BulkAction configures one bulk toggle button (outliers, low volume).
// The controller is agnostic to what the category means; it only needs
// the id set. Both buttons are optional and independently gated by Show.
type BulkAction struct {
	Show  bool
	IDs   []string
	Count int
	Label string
}

// Enabled reports whether the button should render. A Show=true action
// with no ids still renders (count 0) and toggles as a no-op; that is a
// defined harmless default, never a fault.
func (b BulkAction) Enabled() bool { return b.Show }

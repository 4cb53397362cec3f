package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/derekology/simple-dash/internal/config"
	"github.com/derekology/simple-dash/internal/database/repository"
	"github.com/derekology/simple-dash/internal/prefs"
	"github.com/derekology/simple-dash/internal/selection"
	"github.com/derekology/simple-dash/internal/service"
	"github.com/derekology/simple-dash/internal/testdata"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services

	state  appState
	modal  modalState
	status string
	width  int
	height int

	campaigns []repository.Campaign
	reports   []repository.Report
	summary   service.Summary
	dropdown  *Dropdown
	metric    chartMetric
	repCursor int

	// import flow
	importPath string
	lastImport *service.IngestResult

	// selection restored from prefs, applied on first campaign load
	initialSelection []string
	restored         bool
	persistSelection bool
}

type Repos struct {
	Campaigns *repository.CampaignRepo
	Reports   *repository.ReportRepo
}

type Services struct {
	Ingest      *service.IngestService
	Stats       *service.StatsService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewReports   appState = "reports"
	viewImport    appState = "import"
	viewSettings  appState = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

// New builds the app. initialSelection is the persisted campaign
// selection from the previous session; ids that no longer exist are
// dropped when the catalog comes in.
func New(ctx context.Context, cfg config.Config, repos Repos, services Services, initialSelection []string) *App {
	a := &App{
		ctx:              ctx,
		cfg:              cfg,
		repos:            repos,
		services:         services,
		state:            viewDashboard,
		initialSelection: initialSelection,
	}
	a.dropdown = NewDropdown(selection.NewCatalog(nil), cfg.UI.Placeholder, func([]string) {
		a.persistSelection = true
	})
	a.dropdown.OnToggleOutliers = func() { a.status = "toggled outliers" }
	a.dropdown.OnToggleLowVolume = func() { a.status = "toggled low-volume campaigns" }
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCampaigns(), a.loadReports())
}

func (a *App) loadCampaigns() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Campaigns.List(a.ctx, repository.CampaignFilters{})
		if err != nil {
			return errMsg{err}
		}
		return campaignsMsg(list)
	}
}

func (a *App) loadReports() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Reports.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return reportsMsg(list)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
	case campaignsMsg:
		a.applyCampaigns([]repository.Campaign(m))
	case reportsMsg:
		a.reports = []repository.Report(m)
		if a.repCursor >= len(a.reports) {
			a.repCursor = 0
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case ingestDoneMsg:
		a.lastImport = &m.Result
		summary := fmt.Sprintf("imported %d, skipped %d", m.Result.Imported, m.Result.Skipped)
		if n := len(m.Result.FileErrors); n > 0 {
			summary += fmt.Sprintf(", %d file(s) rejected", n)
		}
		a.status = summary
		a.state = viewDashboard
		return a, tea.Batch(a.loadCampaigns(), a.loadReports())
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

// applyCampaigns rebuilds the catalog, the derived category id sets and
// the summary from a fresh campaign list.
func (a *App) applyCampaigns(campaigns []repository.Campaign) {
	a.campaigns = campaigns

	options := make([]selection.Option, 0, len(campaigns))
	for _, c := range campaigns {
		label := c.Title
		if label == "" {
			label = c.Subject
		}
		options = append(options, selection.Option{ID: c.ID, Label: label, Subtitle: c.Subject})
	}
	a.dropdown.SetCatalog(selection.NewCatalog(options))

	outliers := a.services.Stats.OutlierIDs(campaigns)
	lowVolume := a.services.Stats.LowVolumeIDs(campaigns)
	a.dropdown.Outliers = selection.BulkAction{
		Show:  true,
		IDs:   outliers,
		Count: len(outliers),
		Label: "Select outliers",
	}
	a.dropdown.LowVolume = selection.BulkAction{
		Show:  true,
		IDs:   lowVolume,
		Count: len(lowVolume),
		Label: "Select low volume",
	}
	a.summary = a.services.Stats.Summarize(campaigns)

	if !a.restored {
		a.restored = true
		a.dropdown.SetSelected(a.initialSelection)
	}
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != modalNone {
		return a.handleModalKey(m)
	}
	if a.state == viewImport {
		return a.handleImportKey(m)
	}
	if a.state == viewDashboard && a.dropdown.IsOpen() {
		a.dropdown.HandleKey(m)
		return a, a.persistSelectionCmd()
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "r":
		a.state = viewReports
	case "i":
		a.state = viewImport
		a.status = ""
	case "s":
		a.state = viewSettings
		a.status = ""
	case "m":
		if a.state == viewDashboard {
			a.metric = (a.metric + 1) % metricCount
		}
	case "enter", " ":
		if a.state == viewDashboard {
			a.dropdown.HandleKey(m)
		}
	case "up", "k":
		if a.state == viewReports && a.repCursor > 0 {
			a.repCursor--
		}
	case "down", "j":
		if a.state == viewReports && a.repCursor < len(a.reports)-1 {
			a.repCursor++
		}
	case "g":
		if a.state == viewSettings {
			a.status = "seeding sample data..."
			return a, a.seedCmd()
		}
	case "x":
		if a.state == viewSettings {
			a.modal = modalConfirmReset
		}
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		a.modal = modalNone
		return a, a.resetCmd()
	case "n", "N", "esc":
		a.modal = modalNone
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewDashboard
		a.status = ""
	case tea.KeyEnter:
		raw := strings.TrimSpace(a.importPath)
		if raw == "" {
			a.status = "enter one or more CSV paths (separate with ;)"
			return a, nil
		}
		var paths []string
		for _, p := range strings.Split(raw, ";") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		a.status = "importing..."
		return a, a.ingestCmd(paths)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeySpace:
		a.importPath += " "
	case tea.KeyRunes:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

// commands

func (a *App) ingestCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.services.Ingest.ImportFiles(a.ctx, paths)
		if err != nil {
			return errMsg{err}
		}
		return ingestDoneMsg{Result: res}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if a.services.Maintenance == nil {
				return errMsg{fmt.Errorf("maintenance not configured")}
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			return statusMsg("database reset (empty) - import reports or seed sample data")
		},
		a.loadCampaigns(),
		a.loadReports(),
	)
}

func (a *App) seedCmd() tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			err := testdata.Seed(a.ctx, testdata.Repos{Reports: a.repos.Reports, Campaigns: a.repos.Campaigns}, rng)
			if err != nil {
				return errMsg{err}
			}
			return statusMsg("sample data seeded")
		},
		a.loadCampaigns(),
		a.loadReports(),
	)
}

func (a *App) persistSelectionCmd() tea.Cmd {
	if !a.persistSelection {
		return nil
	}
	a.persistSelection = false
	ids := a.dropdown.Selected()
	return func() tea.Msg {
		if err := prefs.SaveSelection(ids); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// views

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewReports:
		body = a.renderReports()
	case viewImport:
		body = a.renderImport()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.modal == modalConfirmReset {
		body += "\n\n" + titleStyle.Render("Reset database?") + "\nThis deletes all imported reports.\n[y] Yes  [n] No"
	}
	if a.status != "" {
		body += "\n" + statusStyle.Render(a.status)
	}
	return body
}

func (a *App) contentWidth() int {
	if a.width == 0 {
		return 80
	}
	return a.width
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("Campaign Dashboard")
	stats := statStyle.Render(fmt.Sprintf(
		"Campaigns: %d  Delivered: %d  Avg open rate: %.1f%%  Avg click rate: %.1f%%",
		a.summary.Campaigns, a.summary.Delivered, a.summary.AvgOpenRate*100, a.summary.AvgClickRate*100))

	picker := a.dropdown.View(a.contentWidth())

	chartTitle := titleStyle.Render(a.metric.label())
	chart := renderBarChart(a.selectedCampaigns(), a.metric, a.contentWidth())

	help := helpStyle.Render("[enter] Pick campaigns  [m] Cycle metric  [r] Reports  [i] Import  [s] Settings  [q] Quit")
	return strings.Join([]string{title, stats, "", picker, "", chartTitle, chart, "", help}, "\n")
}

// selectedCampaigns resolves the selection to campaign rows in working
// selection order.
func (a *App) selectedCampaigns() []repository.Campaign {
	byID := make(map[string]repository.Campaign, len(a.campaigns))
	for _, c := range a.campaigns {
		byID[c.ID] = c
	}
	var out []repository.Campaign
	for _, id := range a.dropdown.Selected() {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (a *App) renderReports() string {
	title := titleStyle.Render("Imported Reports")
	out := title + "\n"
	if len(a.reports) == 0 {
		out += "(no reports imported yet)\n"
	}
	for i, r := range a.reports {
		marker := " "
		if i == a.repCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %-12s  %d campaigns (%d skipped)  %s\n",
			marker, r.CreatedAt.Format(a.dateFormat()), r.Platform, r.Imported, r.Skipped, r.Filename)
	}
	out += helpStyle.Render("[d] Dashboard  [i] Import  [s] Settings  [q] Quit")
	return out
}

func (a *App) renderImport() string {
	title := titleStyle.Render("Import Campaign Reports")
	body := fmt.Sprintf("CSV paths: %s\nType one or more report paths (separate with ;) and press Enter.", a.importPath)
	if a.lastImport != nil {
		body += fmt.Sprintf("\nLast import: %d imported, %d skipped, %d file(s) rejected",
			a.lastImport.Imported, a.lastImport.Skipped, len(a.lastImport.FileErrors))
		if len(a.lastImport.FileErrors) > 0 {
			body += "\nFirst rejection: " + a.lastImport.FileErrors[0].Error()
		}
	}
	body += "\n" + helpStyle.Render("[enter] Import  [esc] Back  [ctrl+c] Quit")
	return title + "\n" + body
}

func (a *App) renderSettings() string {
	title := titleStyle.Render("Settings")
	out := title + "\n"
	out += fmt.Sprintf("Database: %s\n", a.cfg.Database.Path)
	out += fmt.Sprintf("Import limits: %d files, %dMB each\n", a.services.Ingest.Limits.MaxFiles, a.services.Ingest.Limits.MaxFileBytes/(1024*1024))
	out += fmt.Sprintf("Low-volume threshold: %d delivered\n", a.cfg.Analysis.LowVolumeThreshold)
	out += fmt.Sprintf("Outlier IQR multiplier: %.1f\n", a.cfg.Analysis.OutlierIQRMultiplier)
	out += "\n[g] Seed sample data\n"
	out += "[x] Reset database (clears everything)\n"
	out += helpStyle.Render("[d] Dashboard  [r] Reports  [q] Quit")
	return out
}

func (a *App) dateFormat() string {
	if a.cfg.UI.DateFormat != "" {
		return a.cfg.UI.DateFormat
	}
	return "02 Jan 2006"
}

// messages

type campaignsMsg []repository.Campaign

type reportsMsg []repository.Report

type statusMsg string

type errMsg struct{ error }

type ingestDoneMsg struct {
	Result service.IngestResult
}

// Package tui provides the interactive Bubble Tea dashboard for fcast.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/store"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

// DataLoadedMsg is sent when the ledger finishes loading.
type DataLoadedMsg struct {
	Ledger   model.Ledger
	LoadTime time.Duration
	Skipped  int // bad lines plus unreadable files
	Err      error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg DataLoadedMsg

const (
	tabOverview = iota
	tabDebt
	tabFIRE
	tabCashFlow
	tabSettings
)

// Debt tab views, cycled with "s".
const (
	debtViewRecommended = iota
	debtViewAvalanche
	debtViewSnowball
	debtViewCount
)

// extraPaymentStep is the +/- increment on the debt tab.
const extraPaymentStep = 50.0

// App is the root Bubble Tea model.
type App struct {
	// Data
	ledger   model.Ledger
	loaded   bool
	loadTime time.Duration
	skipped  int
	loadErr  error

	// Derived for the current options
	plan       pipeline.Plan
	months     []model.MonthlyStats
	categories []model.CategoryStats

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Calculator inputs; extraPayment is adjustable live on the debt tab.
	opts         pipeline.PlanOptions
	extraPayment float64

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	debtView int
	scroll   [tabSettings]int
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	ledgerDir string
	useCache  bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(ledgerDir string, opts pipeline.PlanOptions, useCache bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 60 * time.Second
	}

	return App{
		ledgerDir:       ledgerDir,
		useCache:        useCache,
		opts:            opts,
		extraPayment:    opts.ExtraPayment,
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.ledgerDir, a.useCache, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute reruns the calculators and window aggregations for the current
// ledger and options.
func (a *App) recompute() {
	opts := a.opts
	opts.ExtraPayment = a.extraPayment
	a.plan = pipeline.BuildPlan(a.ledger, opts)

	since, until := a.window()
	a.months = pipeline.AggregateMonths(a.ledger, since, until)
	a.categories = pipeline.CompareCategories(a.ledger.Expenses, since, until)

	for i := range a.scroll {
		a.scroll[i] = max(0, min(a.scroll[i], a.scrollLimit(i)))
	}
}

// window is the [since, until) lookback range ending with the as-of month.
func (a App) window() (time.Time, time.Time) {
	asOf := a.asOf()
	lookback := a.opts.LookbackMonths
	if lookback <= 0 {
		lookback = forecast.DefaultLookbackMonths
	}
	until := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).AddDate(0, 1, 0)
	return until.AddDate(0, -lookback, 0), until
}

func (a App) asOf() time.Time {
	if a.opts.AsOf.IsZero() {
		return time.Now()
	}
	return a.opts.AsOf
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			a.scrollBy(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.applyLoad(msg)
		a.loaded = true

		if a.needSetup {
			vals := NewSetupValues(loadConfigOrDefault())
			vals.LedgerDir = a.ledgerDir
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.setupVals, a.ledger.Len(), a.ledgerDir)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.ledgerDir, a.useCache))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		if msg.Err != nil {
			// Keep showing the last good ledger.
			a.loadErr = msg.Err
			a.lastRefresh = time.Now()
			return a, nil
		}
		a.applyLoad(DataLoadedMsg(msg))
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) applyLoad(msg DataLoadedMsg) {
	a.ledger = msg.Ledger
	a.loadTime = msg.LoadTime
	a.skipped = msg.Skipped
	a.loadErr = msg.Err
	a.lastRefresh = time.Now()
	a.recompute()
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "j", "down":
		if a.activeTab == tabSettings {
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
		} else {
			a.scrollBy(1)
		}
		return a, nil
	case "k", "up":
		if a.activeTab == tabSettings {
			a.settings.cursor = max(a.settings.cursor-1, 0)
		} else {
			a.scrollBy(-1)
		}
		return a, nil
	case "ctrl+d":
		a.scrollBy(max((a.height-scrollOverhead)/2, minHalfPageScroll))
		return a, nil
	case "ctrl+u":
		a.scrollBy(-max((a.height-scrollOverhead)/2, minHalfPageScroll))
		return a, nil
	case "g":
		a.scrollBy(-a.scrollLimit(a.activeTab))
		return a, nil
	case "G":
		a.scrollBy(a.scrollLimit(a.activeTab))
		return a, nil
	}

	switch a.activeTab {
	case tabDebt:
		switch key {
		case "s":
			a.debtView = (a.debtView + 1) % debtViewCount
			a.scroll[tabDebt] = 0
			return a, nil
		case "+", "=":
			a.extraPayment += extraPaymentStep
			a.recompute()
			return a, nil
		case "-", "_":
			a.extraPayment = max(0, a.extraPayment-extraPaymentStep)
			a.recompute()
			return a, nil
		case "0":
			a.extraPayment = a.opts.ExtraPayment
			a.recompute()
			return a, nil
		}
	case tabSettings:
		if key == "enter" {
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.ledgerDir, a.useCache)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		if a.ledgerDir != a.setupVals.LedgerDir && a.setupVals.LedgerDir != "" {
			a.ledgerDir = a.setupVals.LedgerDir
			a.refreshing = true
			return a, refreshDataCmd(a.ledgerDir, a.useCache)
		}
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig persists the wizard answers and applies them live.
func (a *App) saveSetupConfig() {
	cfg := loadConfigOrDefault()
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.loadErr = err
		return
	}
	theme.SetActive(cfg.Appearance.Theme)
	a.applyConfig(cfg)
	if err := config.Save(cfg); err != nil {
		a.loadErr = fmt.Errorf("saving config: %w", err)
	}
}

// applyConfig copies calculator settings from cfg into the live options.
func (a *App) applyConfig(cfg config.Config) {
	a.opts.ExtraPayment = cfg.Debt.ExtraMonthlyPayment
	a.extraPayment = cfg.Debt.ExtraMonthlyPayment
	a.opts.FIRE = cfg.FIRE.Inputs()
	a.opts.MonthlySavings = cfg.FIRE.MonthlySavings
	a.opts.LookbackMonths = cfg.CashFlow.LookbackMonths
	a.opts.HorizonMonths = cfg.CashFlow.HorizonMonths
}

// scrollLimit is the largest useful scroll offset for a tab's list.
func (a App) scrollLimit(tab int) int {
	switch tab {
	case tabDebt:
		return max(0, len(a.debtStrategy().PayoffOrder)-1)
	case tabFIRE:
		return max(0, len(a.plan.FIRE.YearlyProjections)-1)
	case tabCashFlow:
		return max(0, len(a.plan.CashFlow.ProjectionData)-1)
	case tabOverview:
		return max(0, len(a.categories)-1)
	}
	return 0
}

func (a *App) scrollBy(n int) {
	if a.activeTab >= len(a.scroll) {
		return
	}
	a.scroll[a.activeTab] = max(0, min(a.scroll[a.activeTab]+n, a.scrollLimit(a.activeTab)))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fcast"))
	b.WriteString(subtitleStyle.Render(" · Financial Forecast"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(20, min(40, w-30))
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing ledger\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Scanning " + a.ledgerDir))
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o d f c x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll lists"},
			{"^d ^u", "Half-page scroll"},
			{"g G", "Top / Bottom"},
		}},
		{"Debt", []struct{ key, desc string }{
			{"s", "Cycle recommended / avalanche / snowball"},
			{"+ -", "Adjust extra payment by " + cli.FormatMoney(extraPaymentStep)},
			{"0", "Reset extra payment"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Edit setting"},
			{"Esc", "Cancel edit"},
			{"r", "Reload ledger"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + context pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	since, until := a.window()
	pill := pillStyle.Render(" ") +
		pillAccent.Render(since.Format("Jan 2006")+" – "+until.AddDate(0, 0, -1).Format("Jan 2006")) +
		pillStyle.Render(" │ ") + pillAccent.Render(cli.FormatNumber(int64(a.ledger.Len()))) +
		pillStyle.Render(" records │ ") + pillStyle.Render(a.ledgerDir)
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).Render(pill)

	// 2. Status bar
	fireProgress := -1.0
	if a.plan.FIREErr == nil && a.plan.FIRE.FIRENumber > 0 {
		fireProgress = a.plan.FIRE.ProgressPercentage / 100
	}
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		DataAge:      fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Records:      a.ledger.Len(),
		Refreshing:   a.refreshing,
		AutoRefresh:  a.autoRefresh,
		FIREProgress: fireProgress,
		Warning:      a.statusWarning(),
	})

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabDebt:
		content = a.renderDebtTab(cw, contentH)
	case tabFIRE:
		content = a.renderFIRETab(cw, contentH)
	case tabCashFlow:
		content = a.renderCashFlowTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill background, center.
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusWarning() string {
	switch {
	case a.loadErr != nil:
		return truncStr(a.loadErr.Error(), 40)
	case a.skipped > 0:
		return fmt.Sprintf("%d ledger inputs skipped", a.skipped)
	}
	return ""
}

// debtStrategy returns the strategy selected by the debt view.
func (a App) debtStrategy() model.DebtStrategy {
	switch a.debtView {
	case debtViewAvalanche:
		return a.plan.Debt.Avalanche
	case debtViewSnowball:
		return a.plan.Debt.Snowball
	}
	return a.plan.Debt.RecommendedStrategy()
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd starts loading in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(ledgerDir string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so workers aren't stalled; the next update
			// catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- loadLedger(ledgerDir, useCache, progressFn)
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the ledger in the background without progress UI.
func refreshDataCmd(ledgerDir string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg(loadLedger(ledgerDir, useCache, nil))
	}
}

func loadLedger(ledgerDir string, useCache bool, progressFn pipeline.ProgressFunc) DataLoadedMsg {
	start := time.Now()

	if useCache {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			cr, loadErr := pipeline.LoadWithCache(ledgerDir, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return DataLoadedMsg{
					Ledger:   cr.Ledger,
					LoadTime: time.Since(start),
					Skipped:  cr.ParseErrors + cr.FileErrors,
				}
			}
		}
	}

	result, err := pipeline.Load(ledgerDir, progressFn)
	if err != nil {
		return DataLoadedMsg{LoadTime: time.Since(start), Err: err}
	}
	return DataLoadedMsg{
		Ledger:   result.Ledger,
		LoadTime: time.Since(start),
		Skipped:  result.ParseErrors + result.FileErrors,
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

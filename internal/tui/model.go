package tui

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redactyl/drcscan/internal/audit"
	"github.com/redactyl/drcscan/internal/report"
	"github.com/redactyl/drcscan/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)
)

const (
	defaultStatus = "q: quit | ?: help | j/k: navigate | /: search | b: baseline | c: copy | r: rescan"
	emptyStatus   = "q: quit | r: rescan | a: audit log"
)

type statusMsg string

type resultsMsg []types.UnitResult

// Model represents the main state of the TUI application.
type Model struct {
	table       table.Model
	viewport    viewport.Model
	spinner     spinner.Model
	searchInput textinput.Model

	items    []report.Item
	visible  []int // indices into items after filtering
	baseline report.Baseline
	opts     Options
	prefs    Prefs

	ready         bool // terminal dimensions are known
	quitting      bool
	scanning      bool
	searchMode    bool
	showHelp      bool
	showHistory   bool
	hideBaselined bool
	searchQuery   string

	history          []audit.ScanRecord
	historySelection int

	width         int
	height        int
	statusMessage string
	statusTimeout *time.Time
	lastScanTime  time.Time
}

// NewModel initializes a TUI model over the findings of results.
func NewModel(results []types.UnitResult, baseline report.Baseline, opts Options) Model {
	if baseline.Items == nil {
		baseline.Items = map[string]bool{}
	}
	columns := []table.Column{
		{Title: "", Width: 4},
		{Title: "Location", Width: 50},
		{Title: "Line", Width: 6},
		{Title: "Report", Width: 24},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search location, unit or report..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	m := Model{
		table:        t,
		spinner:      sp,
		searchInput:  ti,
		items:        report.Flatten(results),
		baseline:     baseline,
		opts:         opts,
		prefs:        LoadPrefs(),
		lastScanTime: time.Now(),
	}
	m.applyFilters()
	m.resetStatus()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rescan() tea.Cmd {
	rescanFunc := m.opts.Rescan
	return func() tea.Msg {
		if rescanFunc == nil {
			return statusMsg("Rescan not available")
		}
		results, err := rescanFunc()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return resultsMsg(results)
	}
}

// applyFilters recomputes the visible rows from the search query and the
// baselined toggle, keeping the cursor in range.
func (m *Model) applyFilters() {
	q := strings.ToLower(strings.TrimSpace(m.searchQuery))
	visible := []int{}
	for i, it := range m.items {
		if m.hideBaselined && m.baseline.Has(it) {
			continue
		}
		if q != "" && !matchesQuery(it, q) {
			continue
		}
		visible = append(visible, i)
	}
	m.visible = visible
	m.rebuildTableRows()
}

func matchesQuery(it report.Item, q string) bool {
	for _, s := range []string{it.Location, it.Unit, it.Finding.Name, it.Finding.Entry} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (m *Model) rebuildTableRows() {
	rows := make([]table.Row, len(m.visible))
	for i, idx := range m.visible {
		it := m.items[idx]
		mark := ""
		if m.baseline.Has(it) {
			mark = "(b)"
		}
		rows[i] = table.Row{mark, it.Location, strconv.Itoa(it.Line), it.Finding.Name}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.updateViewportContent()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.searchInput.SetValue("")
	m.hideBaselined = false
	m.applyFilters()
}

// selected returns the item under the cursor, or nil when nothing is shown.
func (m Model) selected() *report.Item {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	it := m.items[m.visible[c]]
	return &it
}

func (m *Model) counts() (total, fresh, baselined, reports int) {
	names := map[string]bool{}
	for _, it := range m.items {
		total++
		if m.baseline.Has(it) {
			baselined++
		} else {
			fresh++
		}
		names[strings.ToLower(it.Finding.Entry)] = true
	}
	return total, fresh, baselined, len(names)
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m *Model) resetStatus() {
	m.statusTimeout = nil
	if len(m.items) == 0 {
		m.statusMessage = emptyStatus
	} else {
		m.statusMessage = defaultStatus
	}
}

// codeContext returns up to n lines either side of line (1-based) in code and
// the 1-based number of the first returned line.
func codeContext(code string, line, n int) ([]string, int) {
	lines := strings.Split(code, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	start := max(line-n, 1)
	end := min(line+n, len(lines))
	return lines[start-1 : end], start
}

// highlightABAP renders one line of ABAP with terminal colours. Lines are
// highlighted one at a time so escape sequences never span a line break.
func highlightABAP(line string) string {
	lexer := lexers.Get("abap")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	it := m.selected()
	if it == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderDetail(*it))
}

func (m Model) renderDetail(it report.Item) string {
	f := it.Finding
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.Entry) + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Location:  "), it.Location)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Unit:      "), it.Unit)
	fmt.Fprintf(&b, "%s %d (chars %d-%d)\n", keyStyle.Render("Line:      "), it.Line, f.Start, f.End)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Suggestion:"), f.Suggestion)
	if m.baseline.Has(it) {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Baseline:  "), dimStyle.Render("recorded, not reported as new"))
	}

	if it.Code == "" {
		return b.String()
	}
	b.WriteString("\n")
	lines, first := codeContext(it.Code, f.Line, m.prefs.ContextLines)
	offset := it.Line - f.Line
	for i, l := range lines {
		n := first + i
		gutter := fmt.Sprintf("%5d  ", n+offset)
		if m.prefs.Highlight {
			l = highlightABAP(l)
		}
		if n == f.Line {
			b.WriteString(matchStyle.Render(">") + gutter + l + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render(gutter) + l + "\n")
		}
	}
	return b.String()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.showHistory {
			switch msg.String() {
			case "q", "esc", "a":
				m.showHistory = false
				m.historySelection = 0
			case "up", "k":
				if m.historySelection > 0 {
					m.historySelection--
				}
			case "down", "j":
				if m.historySelection < len(m.history)-1 {
					m.historySelection++
				}
			}
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchQuery = m.searchInput.Value()
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.clearFilters()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "/":
			m.searchMode = true
			m.searchInput.SetValue(m.searchQuery)
			m.searchInput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.searchQuery != "" || m.hideBaselined {
				m.clearFilters()
				m.setStatus("Filters cleared", 3*time.Second)
			}
			return m, nil
		case "?", "h":
			m.showHelp = true
			return m, nil
		case "a":
			history, err := audit.NewAuditLog(m.opts.Root).LoadHistory()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				m.setStatus(fmt.Sprintf("Audit log: %v", err), 3*time.Second)
				return m, nil
			}
			m.history = history
			m.historySelection = 0
			m.showHistory = true
			return m, nil
		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			m.statusMessage = "Rescanning..."
			return m, m.rescan()
		case "b":
			cmd = m.toggleBaseline()
			return m, cmd
		case "B":
			m.hideBaselined = !m.hideBaselined
			m.applyFilters()
			if m.hideBaselined {
				m.setStatus("Hiding baselined findings", 3*time.Second)
			} else {
				m.setStatus("Showing baselined findings", 3*time.Second)
			}
			return m, nil
		case "c":
			return m, m.copyLocation()
		case "y":
			return m, m.copySuggestion()
		case "+", "=":
			cmd = m.setContextLines(m.prefs.ContextLines + 1)
			return m, cmd
		case "-":
			cmd = m.setContextLines(m.prefs.ContextLines - 1)
			return m, cmd
		case "s":
			m.prefs.Highlight = !m.prefs.Highlight
			m.updateViewportContent()
			return m, m.savePrefs()
		case "down", "j", "up", "k":
			m.table, cmd = m.table.Update(msg)
			m.updateViewportContent()
			return m, cmd
		case "g", "home":
			m.table.GotoTop()
			m.updateViewportContent()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			m.updateViewportContent()
			return m, nil
		case "pgdown", "pgup":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		cols := m.table.Columns()
		locWidth := m.width - 10 - cols[0].Width - cols[2].Width - cols[3].Width
		if locWidth < 25 {
			locWidth = 25
		}
		cols[1].Width = locWidth
		m.table.SetColumns(cols)

		statsHeaderHeight := 1
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - statsHeaderHeight
		tableHeight := int(float64(availableHeight) * 0.45)
		viewportHeight := availableHeight - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1

		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case resultsMsg:
		m.items = report.Flatten(msg)
		m.scanning = false
		m.lastScanTime = time.Now()
		m.table.SetCursor(0)
		m.applyFilters()
		if len(m.items) == 0 {
			m.setStatus("Rescan complete - no obsolete reports found", 5*time.Second)
		} else {
			m.setStatus(fmt.Sprintf("Rescan complete - found %d findings", len(m.items)), 5*time.Second)
		}

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.resetStatus()
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(55).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Rescanning...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText()))
	}
	if m.showHistory {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(m.historyView()))
	}

	total, fresh, baselined, reports := m.counts()
	var statsContent string
	if total == 0 {
		statsContent = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[OK] No obsolete reports found")
	} else {
		statsContent = fmt.Sprintf("Findings: %d  |  New: %d  |  Baselined: %d  |  Reports: %d", total, fresh, baselined, reports)
		if len(m.visible) != total {
			statsContent += fmt.Sprintf("  |  Showing: %d", len(m.visible))
		}
		if m.searchQuery != "" {
			statsContent += fmt.Sprintf("  [search:'%s']", m.searchQuery)
		}
	}
	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(statsContent)

	tableRender := tableBorderStyle.
		Width(m.width).
		Height(m.table.Height()).
		Render(m.table.View())

	var detailContent string
	if len(m.visible) == 0 {
		emptyMsg := "No obsolete reports to review.\n\nPress 'r' to rescan\nPress '?' for help"
		if total > 0 {
			emptyMsg = "No findings match filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(emptyMsg))
	} else {
		detailContent = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.
		Width(m.width).
		Height(m.viewport.Height).
		Render(detailContent)

	var bottomBar string
	if m.searchMode {
		bottomBar = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("15")).
			Width(m.width).
			Padding(0, 1).
			Render(m.searchInput.View() + fmt.Sprintf(" (%d matches)", len(m.visible)))
	} else {
		timeInfo := fmt.Sprintf("Scanned: %s ago", formatDuration(time.Since(m.lastScanTime)))
		spacer := max(m.width-4-lipgloss.Width(m.statusMessage)-lipgloss.Width(timeInfo), 1)
		bottomBar = statusStyle.
			Width(m.width).
			Padding(0, 2).
			Render(m.statusMessage + strings.Repeat(" ", spacer) + timeInfo)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statsHeader, tableRender, detailRender, bottomBar)
}

func (m Model) historyView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Scan history") + "\n\n")
	if len(m.history) == 0 {
		b.WriteString("No audited scans yet.\nRun 'drcscan scan --audit'.\n")
		return b.String()
	}
	for i, r := range m.history {
		if i >= 15 {
			fmt.Fprintf(&b, "... %d more\n", len(m.history)-i)
			break
		}
		line := fmt.Sprintf("%s  findings %-4d new %-4d units %d",
			r.Timestamp.Local().Format("Jan 2, 15:04"), r.TotalFindings, r.NewFindings, r.Units)
		if i == m.historySelection {
			line = matchStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func helpText() string {
	rows := [][2]string{
		{"j/k, up/down", "move between findings"},
		{"g/G", "first / last finding"},
		{"pgup/pgdown", "scroll the detail pane"},
		{"/", "search location, unit or report"},
		{"esc", "clear filters"},
		{"b", "add or remove the finding from the baseline"},
		{"B", "hide or show baselined findings"},
		{"c / y", "copy location / suggestion"},
		{"+ / -", "more or fewer context lines"},
		{"s", "toggle syntax highlighting"},
		{"a", "audit log history"},
		{"r", "rescan"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", keyStyle.Render(fmt.Sprintf("%-14s", r[0])), r[1])
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

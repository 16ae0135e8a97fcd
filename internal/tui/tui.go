package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	logger   *log.Logger
	session  *statistics.Session
	messages *game.MessageLog

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Display state, fed by round snapshots
	snapshot      game.RoundSnapshot
	hasRound      bool
	pending       *game.DecisionRequest
	betweenRounds bool
	totals        []float64

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// ActionResult is one line the player submitted
type ActionResult struct {
	Input string
	Quit  bool
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// EventMsg carries a game event into the update loop
type EventMsg struct {
	Event game.GameEvent
}

// PromptMsg asks the player to decide on a hand
type PromptMsg struct {
	Request game.DecisionRequest
}

// PromptDoneMsg clears the pending decision
type PromptDoneMsg struct{}

// WaitingMsg toggles the between-rounds prompt
type WaitingMsg struct {
	Waiting bool
}

// LogMsg appends a line to the message log
type LogMsg struct {
	Entry string
}

// NewTUIModel creates a new TUI model
func NewTUIModel(session *statistics.Session, window int, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(session, window, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(session *statistics.Session, window int, logger *log.Logger, testMode bool) *TUIModel {
	// Properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter to deal, 'quit' to exit"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	if session == nil {
		session = statistics.NewSession()
	}

	// Tests queue several answers before the engine asks for them
	buffer := 1
	if testMode {
		buffer = 16
	}

	formatter := game.NewEventFormatter(game.FormattingOptions{Human: true})
	m := &TUIModel{
		logger:       logger.WithPrefix("tui"),
		session:      session,
		messages:     game.NewMessageLog(window, formatter),
		logViewport:  vp,
		actionInput:  ti,
		actionResult: make(chan ActionResult, buffer),
		quitSignal:   make(chan bool, 1),
		focusedPane:  1, // Start with input focused
		testMode:     testMode,
		capturedLog:  []string{},
	}
	if testMode {
		m.messages.OnAdd(func(entry string) {
			m.capturedLog = append(m.capturedLog, entry)
		})
	}
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case EventMsg:
		m.HandleEvent(msg.Event)

	case PromptMsg:
		req := msg.Request
		m.SetPending(&req)

	case PromptDoneMsg:
		m.SetPending(nil)

	case WaitingMsg:
		m.betweenRounds = msg.Waiting

	case LogMsg:
		m.AddLogEntry(msg.Entry)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.submit(ActionResult{Quit: true})
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				m.processAction(m.actionInput.Value())
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 0 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#626262"))
	}
	actionPane := actionStyle.Render(actionContent)

	paneHeight := max(m.height-actionHeight-4, 1) // Borders of both rows

	// Table pane (right side of log pane, same height)
	tableContent := m.renderTablePane()
	tableWidth := max(lipgloss.Width(tableContent), 34)
	tablePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(tableWidth).
		Height(paneHeight).
		Render(tableContent)

	// Log pane (left, fills what the table leaves)
	logWidth := max(m.width-tableWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(m.renderLogPane())

	// On first proper sizing, stick to the newest messages
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, tablePane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the message window
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.messages.Messages(), "\n")
}

// renderTablePane renders the dealer, every hand of the round and the
// running balances
func (m *TUIModel) renderTablePane() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(" Blackjack "))
	content.WriteString("\n\n")

	if m.hasRound {
		content.WriteString(fmt.Sprintf("  %-8s %s %s\n", "Dealer",
			m.formatCards(m.snapshot.Dealer), m.formatTotal(m.snapshot.Dealer)))
		content.WriteString("\n")

		for _, h := range m.snapshot.Hands {
			if !h.Active {
				continue
			}
			line := fmt.Sprintf("%-8s %s %s", game.SeatName(h.Seat, true), m.formatCards(h), m.formatTotal(h))
			if h.Doubled {
				line += WarningStyle.Render(" x2")
			}
			if h.Current {
				content.WriteString(CurrentHandStyle.Render("> ") + line)
			} else {
				content.WriteString("  " + line)
			}
			content.WriteString("\n")
		}
	} else {
		content.WriteString(InfoStyle.Render("  No round in play"))
		content.WriteString("\n")
	}

	if len(m.totals) > 0 {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render("Balance (x bet):"))
		content.WriteString("\n")
		for seat, total := range m.totals {
			style := SuccessStyle
			if total < 0 {
				style = ErrorStyle
			}
			content.WriteString(fmt.Sprintf("  %-8s %s\n", game.SeatName(game.Seat(seat), true),
				style.Render(game.FormatUnits(total))))
		}
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.pending != nil:
		content.WriteString(m.renderHandInfo(*m.pending))
		content.WriteString("\n")
		content.WriteString(m.renderAvailableActions(m.pending.Available))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Enter an action (1-4, stand, hit, double, split) or 'hint'"
	case m.betweenRounds:
		content.WriteString(HandInfoStyle.Render("Round over"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Enter to deal the next round, 'stats' for statistics, 'quit' to exit"
	default:
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Waiting for the other seats"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Ctrl+C to quit"
	switch {
	case m.focusedPane == 0:
		help = "Log focused: ↑↓ scroll, Home/End, Tab to input"
	case m.pending != nil:
		help = "Tab to scroll log • Enter to submit • 'hint' for advice • Ctrl+C to quit"
	case m.betweenRounds:
		help = "Tab to scroll log • Enter to deal • 'stats' for statistics • Ctrl+C to quit"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// renderHandInfo renders the hand being decided
func (m *TUIModel) renderHandInfo(req game.DecisionRequest) string {
	total := fmt.Sprintf("%d", req.Total)
	if req.Soft {
		total = "soft " + total
	}
	hand := m.formatCards(game.HandView{Cards: req.Cards})
	return HandInfoStyle.Render(fmt.Sprintf("Hand: %s %s  Dealer shows: %s", hand, total, m.formatCard(req.DealerUp)))
}

// renderAvailableActions renders the actions the engine offered
func (m *TUIModel) renderAvailableActions(available game.ActionSet) string {
	var actions []string
	for _, a := range available.Actions() {
		label := fmt.Sprintf("[%s] %s", a.Key(), a.Label())
		switch a {
		case game.Stand, game.Hit:
			actions = append(actions, SuccessStyle.Render(label))
		default:
			actions = append(actions, WarningStyle.Render(label))
		}
	}

	// Fallback if no valid actions (shouldn't happen)
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}

	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats a hand's cards with colors, face-down cards as ??
func (m *TUIModel) formatCards(h game.HandView) string {
	if len(h.Cards) == 0 {
		return "[]"
	}

	formatted := make([]string, 0, len(h.Cards))
	for i, card := range h.Cards {
		if i < h.Hidden {
			formatted = append(formatted, HiddenCardStyle.Render("??"))
			continue
		}
		formatted = append(formatted, m.formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func (m *TUIModel) formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

func (m *TUIModel) formatTotal(h game.HandView) string {
	switch {
	case h.Hidden > 0 || len(h.Cards) == 0:
		return ""
	case h.Blackjack:
		return SuccessStyle.Render("Blackjack")
	case h.Total > 21:
		return ErrorStyle.Render(fmt.Sprintf("%d bust", h.Total))
	case h.Soft:
		return fmt.Sprintf("soft %d", h.Total)
	default:
		return fmt.Sprintf("%d", h.Total)
	}
}

// HandleEvent updates the table from an event and logs its messages. The
// message window starts afresh with every round.
func (m *TUIModel) HandleEvent(event game.GameEvent) {
	m.snapshot = event.Round()
	m.hasRound = true

	if end, ok := event.(game.RoundEndEvent); ok && end.Result != nil {
		m.totals = append(m.totals[:0], end.Result.Totals...)
	}

	m.messages.OnEvent(event)
	m.refreshLog()
}

// AddLogEntry adds an entry to the message window
func (m *TUIModel) AddLogEntry(entry string) {
	m.messages.Add(entry)
	m.refreshLog()
}

func (m *TUIModel) refreshLog() {
	// Skip UI updates in test mode
	if m.testMode {
		return
	}

	m.logViewport.SetContent(m.renderLogPane())
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// SetPending sets the decision the player is asked for, nil when none
func (m *TUIModel) SetPending(req *game.DecisionRequest) {
	m.pending = req
	if req != nil {
		m.betweenRounds = false
	}
}

// ShowHint logs the basic-strategy choice for the pending decision
func (m *TUIModel) ShowHint() {
	if m.pending == nil {
		m.AddLogEntry("Hints are available when it is your turn")
		return
	}

	action, err := game.Advise(*m.pending)
	if err != nil {
		m.logger.Warn("Hint fell back to a safe action", "total", m.pending.Total, "soft", m.pending.Soft, "error", err)
	}
	m.session.RecordHint()
	m.AddLogEntry(fmt.Sprintf("(Hint) Correct basic strategy choice: %s", action.Label()))
}

// ShowStats logs the session's decision statistics
func (m *TUIModel) ShowStats() {
	for _, line := range m.session.Summary() {
		m.AddLogEntry(line)
	}
}

// processAction processes a submitted line
func (m *TUIModel) processAction(input string) {
	input = strings.TrimSpace(input)

	switch strings.ToLower(input) {
	case "hint", "?":
		m.ShowHint()
		return
	case "stats":
		m.ShowStats()
		return
	case "quit", "exit", "q":
		m.submit(ActionResult{Quit: true})
		return
	}

	m.submit(ActionResult{Input: input})
}

// submit hands a result to whoever waits for input without blocking the UI
func (m *TUIModel) submit(result ActionResult) {
	select {
	case m.actionResult <- result:
	default:
		m.logger.Debug("Dropped input, previous input not yet consumed", "input", result.Input)
	}
}

// Results delivers submitted input to the agent
func (m *TUIModel) Results() <-chan ActionResult {
	return m.actionResult
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
		// Channel is full, quit signal already sent
	}
}

// Pending returns the decision awaiting the player, nil when none
func (m *TUIModel) Pending() *game.DecisionRequest {
	return m.pending
}

// Snapshot returns the last round snapshot shown
func (m *TUIModel) Snapshot() game.RoundSnapshot {
	return m.snapshot
}

// Totals returns the balances shown in the table pane
func (m *TUIModel) Totals() []float64 {
	return m.totals
}

// Messages returns the message window, oldest first
func (m *TUIModel) Messages() []string {
	return m.messages.Messages()
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically submits a line (test mode only)
func (m *TUIModel) InjectAction(input string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}

	select {
	case m.actionResult <- ActionResult{Input: input}:
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

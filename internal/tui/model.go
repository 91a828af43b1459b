package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/conversation"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/indicator"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/pipeline"
	"github.com/diogo/geminichat/internal/render"
)

const (
	eventBuffer = 64

	emptyStateText = "Start a conversation! Ask me anything."
)

// Messages delivered from the pipeline side
type (
	snapshotMsg struct {
		conv models.Conversation
	}
	stateMsg struct {
		state pipeline.State
	}
	frameMsg struct {
		frame indicator.Frame
	}
	submitDoneMsg struct {
		err   error
		draft string
	}
	resetDoneMsg struct {
		err error
	}
	copyDoneMsg struct {
		err error
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

// eventBus carries store, state and indicator events into the bubbletea loop
type eventBus struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newEventBus(size int) *eventBus {
	return &eventBus{
		ch:   make(chan tea.Msg, size),
		done: make(chan struct{}),
	}
}

// publish delivers msg unless the bus is closed
func (b *eventBus) publish(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// offer delivers msg only if there is room
func (b *eventBus) offer(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *eventBus) close() {
	b.once.Do(func() { close(b.done) })
}

// listen waits for the next bus event
func (b *eventBus) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.done:
			return nil
		default:
		}
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Option configures the chat model
type Option func(*Model)

// WithRenderOptions sets markdown and code rendering options
func WithRenderOptions(opts render.Options) Option {
	return func(m *Model) {
		m.renderOpts = opts
	}
}

// WithLogger sets the diagnostic logger for the session pipeline
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithClipboard replaces the clipboard writer (used by tests)
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) {
		m.copyFn = fn
	}
}

// WithExportDir sets where Ctrl+S writes transcripts. Empty means the working directory.
func WithExportDir(dir string) Option {
	return func(m *Model) {
		m.exportDir = dir
	}
}

// WithIndicatorParams overrides the dot animation timing
func WithIndicatorParams(p indicator.Params) Option {
	return func(m *Model) {
		m.params = p
	}
}

// Model represents the chat screen state
type Model struct {
	pipeline   *pipeline.Pipeline
	clock      *indicator.Clock
	bus        *eventBus
	ctx        context.Context
	cancel     context.CancelFunc
	modelLabel string
	renderOpts render.Options
	params     indicator.Params
	copyFn     func(string) error
	exportDir  string
	logger     zerolog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// State mirrored from the pipeline side
	conv  models.Conversation
	busy  bool
	frame indicator.Frame

	ready  bool
	notice string

	width  int
	height int
}

// NewChatModel wires a conversation store, indicator clock and send pipeline over gateway
func NewChatModel(gateway api.Completer, modelLabel string, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(palette.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(palette.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		bus:        newEventBus(eventBuffer),
		ctx:        ctx,
		cancel:     cancel,
		modelLabel: modelLabel,
		renderOpts: render.DefaultOptions(),
		params:     indicator.DefaultParams(),
		copyFn:     clipboard.WriteAll,
		logger:     zerolog.Nop(),
		textarea:   ta,
	}
	for _, opt := range opts {
		opt(&m)
	}

	bus := m.bus
	m.clock = indicator.New(
		indicator.WithParams(m.params),
		indicator.WithSink(func(f indicator.Frame) {
			bus.offer(frameMsg{frame: f})
		}),
	)

	store := conversation.NewStore()
	store.Subscribe(func(c models.Conversation) {
		bus.publish(snapshotMsg{conv: c})
	})

	m.pipeline = pipeline.New(gateway, store,
		pipeline.WithIndicator(m.clock),
		pipeline.WithStateObserver(func(s pipeline.State) {
			bus.publish(stateMsg{state: s})
		}),
		pipeline.WithLogger(logging.Component(m.logger, "pipeline")),
	)

	return m
}

// Init starts listening for pipeline events
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.bus.listen(),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.shutdown()
			return m, tea.Quit

		case "enter":
			draft := m.textarea.Value()
			if strings.TrimSpace(draft) == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.notice = ""
			return m, m.submit(draft)

		case "ctrl+n":
			return m, m.reset()

		case "ctrl+y":
			return m, m.copyLastReply()

		case "ctrl+s":
			return m, m.exportTranscript()
		}

	case snapshotMsg:
		m.conv = msg.conv
		m.refreshViewport()
		cmds = append(cmds, m.bus.listen())

	case stateMsg:
		m.busy = msg.state == pipeline.StateSending
		if m.busy {
			m.frame = indicator.Frame{}
		}
		m.refreshViewport()
		cmds = append(cmds, m.bus.listen())

	case frameMsg:
		m.frame = msg.frame
		if m.busy {
			m.refreshViewport()
		}
		cmds = append(cmds, m.bus.listen())

	case submitDoneMsg:
		switch {
		case errors.Is(msg.err, apierrors.ErrBusy):
			m.notice = "Still waiting for the last reply"
			if m.textarea.Value() == "" {
				m.textarea.SetValue(msg.draft)
			}
		case msg.err != nil && !apierrors.IsSilent(msg.err):
			m.notice = msg.err.Error()
		}

	case resetDoneMsg:
		if errors.Is(msg.err, apierrors.ErrBusy) {
			m.notice = "Can't start a new chat while waiting for a reply"
		} else {
			m.notice = ""
		}

	case copyDoneMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last reply"
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("transcript export failed")
			m.notice = "Save failed: " + msg.err.Error()
		} else {
			m.notice = "Saved transcript to " + msg.path
		}
	}

	// Only pass KeyMsg to the textarea to prevent escape sequence leaks
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refreshViewport()
}

// submit runs one pipeline turn off the event loop
func (m Model) submit(draft string) tea.Cmd {
	p, ctx := m.pipeline, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: p.Submit(ctx, draft), draft: draft}
	}
}

// reset starts a new chat off the event loop; the store publishes while the pipeline lock is held
func (m Model) reset() tea.Cmd {
	p := m.pipeline
	return func() tea.Msg {
		return resetDoneMsg{err: p.Reset()}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.conv.LastReply()
	if !ok || reply.Status != models.StatusComplete {
		return nil
	}
	copyFn, text := m.copyFn, reply.Text
	return func() tea.Msg {
		return copyDoneMsg{err: copyFn(text)}
	}
}

// exportTranscript writes the current snapshot as markdown
func (m Model) exportTranscript() tea.Cmd {
	if m.conv.IsEmpty() {
		return nil
	}
	conv, dir := m.conv, m.exportDir
	opts := conversation.ExportOptions{
		Format:     conversation.ExportFormatMarkdown,
		ModelLabel: m.modelLabel,
	}
	return func() tea.Msg {
		data, err := conversation.Export(conv, opts)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		name := fmt.Sprintf("geminichat-%s%s", time.Now().Format("20060102-150405"), opts.Format.Extension())
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// shutdown cancels the in-flight turn and stops event delivery
func (m Model) shutdown() {
	m.cancel()
	m.bus.close()
}

// Busy reports whether a turn is in flight, as last reported by the pipeline
func (m Model) Busy() bool {
	return m.busy
}

// Conversation returns the last conversation snapshot received
func (m Model) Conversation() models.Conversation {
	return m.conv
}

// refreshViewport rebuilds the message list
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)

	var content strings.Builder
	for i, entry := range m.conv.Entries() {
		if i > 0 {
			content.WriteString("\n")
		}

		if entry.Sender == models.SenderUser {
			content.WriteString(userLabelStyle.Render("⬤ You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(render.Entry(entry, opts)))
			content.WriteString("\n")
			continue
		}

		content.WriteString(assistantLabelStyle.Render("✦ " + m.modelLabel))
		content.WriteString("\n")

		var body string
		style := assistantBubbleStyle
		switch entry.Status {
		case models.StatusPending:
			body = render.Dots(m.frame, m.params.Amplitude)
		case models.StatusFailed:
			body = render.Entry(entry, opts)
			style = failedBubbleStyle
		default:
			body = render.Entry(entry, opts)
		}
		content.WriteString(style.Width(bubbleWidth).Render(body))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// View renders the chat screen
func (m Model) View() string {
	if !m.ready {
		return hintStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Gemini Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelLabel),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	var messages string
	if m.conv.IsEmpty() {
		messages = m.renderWelcome()
	} else {
		messages = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(messages))

	input := lipgloss.JoinVertical(lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	text := welcomeStyle.Width(width).Render(emptyStateText)

	top := (m.viewport.Height - lipgloss.Height(text)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + text
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+N", "New chat"},
		{"Ctrl+Y", "Copy reply"},
		{"Ctrl+S", "Save"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(gateway api.Completer, modelLabel string, opts ...Option) error {
	m := NewChatModel(gateway, modelLabel, opts...)
	defer m.clock.Stop()
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

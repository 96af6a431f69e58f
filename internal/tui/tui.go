// Package tui provides the Bubble Tea chat client.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
)

// ── Styles ────────────

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 2)
	userLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	aiLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	timeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusBarStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("245")).Padding(0, 1)
	cooldownStyle   = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("178")).Bold(true)
)

// ── Messages ────────────

type replyMsg struct {
	msg model.ChatMessage
	err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the chat screen. Input is disabled
// while a reply is outstanding so turns never interleave.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	pending  bool
	lastErr  error
}

// New creates the chat model for sess. ctx bounds every outbound call.
func New(ctx context.Context, sess *session.Session) Model {
	in := textinput.New()
	in.Placeholder = "Share what's on your mind…"
	in.CharLimit = 2000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{ctx: ctx, sess: sess, input: in, spinner: sp}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, tick()) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit(m.input.Value())
		case "f1", "alt+1":
			return m.suggest(0)
		case "f2", "alt+2":
			return m.suggest(1)
		case "f3", "alt+3":
			return m.suggest(2)
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case replyMsg:
		m.pending = false
		m.lastErr = msg.err
		m.input.Focus()
		m.refresh()
		return m, nil

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title(1) + suggestions(1) + input(1) + statusBar(1)
		vpHeight := m.height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.input.Width = m.width - 4
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if m.pending || text == "" {
		return m, nil
	}
	m.pending = true
	m.lastErr = nil
	m.input.Reset()
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.send(text))
}

func (m Model) suggest(i int) (tea.Model, tea.Cmd) {
	s := m.sess.QuickSuggestions()
	if i >= len(s) {
		return m, nil
	}
	return m.submit(s[i])
}

func (m Model) send(text string) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		msg, err := sess.SendChat(ctx, text)
		return replyMsg{msg: msg, err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	st := m.sess.State()
	title := titleStyle.Width(m.width).Render("  neeva  " + st.User.Name())

	var hints []string
	for i, s := range m.sess.QuickSuggestions() {
		hints = append(hints, suggestionStyle.Render(fmt.Sprintf("F%d", i+1))+" "+s)
	}
	suggestions := " " + strings.Join(hints, "   ")

	prompt := m.input.View()
	if m.pending {
		prompt = " " + m.spinner.View() + " Neeva is thinking…"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), suggestions, prompt, m.statusBar())
}

func (m Model) statusBar() string {
	hint := "enter send  F1-F3 suggestion  ↑/↓ scroll  esc quit"
	var right string
	if secs := m.sess.Cooldown(); secs > 0 {
		right = cooldownStyle.Render(fmt.Sprintf("cooling down %ds", secs))
	}
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + right)
}

// refresh re-renders the transcript from the current snapshot and keeps the
// newest turn in view.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m *Model) renderHistory() string {
	wrap := lipgloss.NewStyle().Width(max(m.width-4, 10)).PaddingLeft(2)
	var sb strings.Builder
	for _, c := range m.sess.State().ChatHistory {
		label := aiLabelStyle.Render("Neeva")
		if c.IsUser {
			label = userLabelStyle.Render("You")
		}
		sb.WriteString(label + "  " + timeStyle.Render(c.Timestamp.Local().Format("15:04")) + "\n")
		sb.WriteString(wrap.Render(c.Content) + "\n\n")
	}
	if m.lastErr != nil {
		sb.WriteString(errorStyle.Render("  "+m.lastErr.Error()) + "\n")
	}
	return sb.String()
}

// Run starts the chat client on the alternate screen and blocks until quit.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

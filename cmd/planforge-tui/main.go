// Command planforge-tui is a terminal chat client for a travel planning
// workflow. It connects to the update gateway, folds the update stream into
// workflow state through a session, and renders the transcript, agent
// activity, and plan results as they arrive.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	workflow "github.com/planforge/planforge-core/core"
	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/updates"
	"github.com/planforge/planforge-core/core/updates/gateway"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	agentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	connectionColors = map[events.ConnectionStatus]lipgloss.Style{
		events.StatusConnected:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		events.StatusConnecting:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		events.StatusDisconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		events.StatusError:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

type stateMsg workflow.WorkflowState

type connectFailedMsg struct{ err error }

type model struct {
	session *workflow.Session
	states  chan workflow.WorkflowState

	state    workflow.WorkflowState
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool
	err    error
}

func newModel(session *workflow.Session) model {
	input := textinput.New()
	input.Placeholder = "Describe the trip you want planned..."
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = agentStyle

	return model{
		session: session,
		states:  make(chan workflow.WorkflowState, 16),
		state:   session.Snapshot(),
		input:   input,
		spinner: spin,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForState(),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// waitForState blocks on the next session snapshot and hands it to Update.
func (m model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.states)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.session.Close()
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.session.Reset()
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.session.AddUserMessage(text)
				m.input.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chromeHeight := 5
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()

	case stateMsg:
		m.state = workflow.WorkflowState(msg)
		if m.ready {
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
		}
		return m, m.waitForState()

	case connectFailedMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderAgentBar())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("connect failed: " + m.err.Error()))
	}
	return b.String()
}

func (m model) renderHeader() string {
	connection := m.state.ConnectionStatus
	indicator := connectionColors[connection].Render("● " + string(connection))
	stage := string(m.state.Stage)
	if m.state.IsProcessing {
		stage += " " + m.spinner.View()
	}
	return headerStyle.Render("PlanForge") + "  " + indicator + "  stage: " + stage
}

func (m model) renderAgentBar() string {
	if len(m.state.ActiveAgents) == 0 {
		if m.state.Err != "" {
			return errorStyle.Render("error: " + m.state.Err)
		}
		return systemStyle.Render("no agents active")
	}

	parts := make([]string, 0, len(m.state.ActiveAgents))
	for _, agent := range m.state.ActiveAgents {
		status := m.state.AgentStatuses[agent]
		label := status.Name
		if status.StatusMessage != "" {
			label += ": " + status.StatusMessage
		}
		if status.Progress != nil {
			label += fmt.Sprintf(" (%.0f%%)", *status.Progress*100)
		}
		parts = append(parts, agentStyle.Render(label))
	}
	return m.spinner.View() + " " + strings.Join(parts, "  |  ")
}

func (m model) renderTranscript() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for _, message := range m.state.Messages {
		prefix := systemStyle.Render("planforge")
		if message.Sender == workflow.SenderUser {
			prefix = userStyle.Render("you")
		}
		b.WriteString(prefix)
		b.WriteString("  ")
		b.WriteString(wordwrap.String(message.Text, width-4))
		b.WriteString("\n\n")
	}

	for _, result := range m.state.Results {
		if result.FadeOut {
			continue
		}
		title := result.Title
		if title == "" {
			title = string(result.Kind)
		}
		body := headerStyle.Render(title) + "\n" + wordwrap.String(result.Content, width-8)
		b.WriteString(resultBoxStyle.Width(width - 4).Render(body))
		b.WriteString("\n\n")
	}

	return b.String()
}

func main() {
	endpoint := flag.String("endpoint", "", "gateway websocket URL (defaults to $PLANFORGE_GATEWAY_URL)")
	planID := flag.String("plan", "", "plan identifier to subscribe to")
	strands := flag.Bool("strands", true, "enable strands backend plan classification")
	flag.Parse()

	reducer := workflow.NewReducer(workflow.WithStrandsBackend(*strands))

	connectOpts := []updates.ConnectOption{}
	if *endpoint != "" {
		connectOpts = append(connectOpts, updates.WithEndpoint(*endpoint))
	}
	if *planID != "" {
		connectOpts = append(connectOpts, updates.WithPlanID(*planID))
	}

	session := workflow.NewSession(
		workflow.WithReducer(reducer),
		workflow.WithUpdateSource(gateway.NewClient()),
		workflow.WithConnectOptions(connectOpts...),
	)

	ctx := context.Background()
	session.Open(ctx)
	defer session.Close()

	m := newModel(session)
	unsubscribe := session.SubscribeToUpdates(func(state workflow.WorkflowState) {
		select {
		case m.states <- state:
		default:
			// Drop intermediate snapshots under backpressure; the next one
			// carries the full state anyway.
		}
	})
	defer unsubscribe()

	program := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		if err := session.Connect(ctx); err != nil {
			program.Send(connectFailedMsg{err: err})
		}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "planforge-tui:", err)
		os.Exit(1)
	}
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"policyrag/internal/domain"
)

// AnswerPort is the TUI-facing subset of the pipeline.
type AnswerPort interface {
	Answer(ctx context.Context, query string) (*domain.AnswerResponse, error)
}

// Model is the Bubble Tea model for the interactive question session.
type Model struct {
	pipeline AnswerPort
	input    textinput.Model
	viewport viewport.Model
	status   string
	source   string
	chunks   int
	waiting  bool
	ready    bool
}

type answerMsg struct {
	resp *domain.AnswerResponse
	err  error
}

// New creates the interactive model over an already indexed pipeline.
func New(pipeline AnswerPort, source string, chunkCount int) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask about the policy document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		pipeline: pipeline,
		input:    ti,
		viewport: vp,
		source:   source,
		chunks:   chunkCount,
		status:   "Index ready. Ask a question.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and drives the answer flow.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Answered with %d context chunks", len(msg.resp.Context))
		m.viewport.SetContent(renderAnswer(msg.resp))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Thinking..."
				pipeline := m.pipeline
				return m, func() tea.Msg {
					resp, err := pipeline.Answer(context.Background(), q)
					return answerMsg{resp: resp, err: err}
				}
			}
		case "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Policy Q&A")
	doc := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render(fmt.Sprintf("%s (%d chunks indexed)", m.source, m.chunks))
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + doc + "\n" + answer + "\n" + input + "\n" + status
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	confidenceStyles = map[domain.Confidence]lipgloss.Style{
		domain.ConfidenceHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		domain.ConfidenceMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		domain.ConfidenceLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func renderAnswer(resp *domain.AnswerResponse) string {
	badge := confidenceStyles[resp.Confidence].Render("confidence: " + string(resp.Confidence))
	var sb strings.Builder
	sb.WriteString(badge)
	sb.WriteString("\n\n")
	sb.WriteString(resp.Answer)
	if len(resp.Context) > 0 {
		sb.WriteString("\n\nSources:\n")
		for i, c := range resp.Context {
			fmt.Fprintf(&sb, "  Excerpt %d (Page %d)  distance=%.3f\n", i+1, c.PageNum, resp.RetrievalScores[i])
		}
	}
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("63")
	styleBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleHelp   = lipgloss.NewStyle().Faint(true)
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

// TUI is a terminal Reviewer backed by bubbletea.
type TUI struct {
	In  io.Reader
	Out io.Writer
	// Copy puts text on the clipboard; nil disables the copy key.
	Copy func(string) error
}

// Review runs the review program until the user decides. Cancelling ctx
// stops the program and returns the context error.
func (t *TUI) Review(ctx context.Context, message string) (Result, error) {
	p := tea.NewProgram(newModel(message, t.Copy),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("review: %w", err)
	}
	return final.(model).result, nil
}

type reviewMode int

const (
	modeChoose reviewMode = iota
	modeEdit
)

type model struct {
	message string
	mode    reviewMode
	input   textinput.Model
	copy    func(string) error
	status  string
	isError bool
	done    bool
	result  Result
}

func newModel(message string, copyFn func(string) error) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleTitle
	ti.CharLimit = 200
	return model{
		message: message,
		input:   ti,
		copy:    copyFn,
		result:  Result{Decision: Abort},
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeEdit {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.mode == modeEdit {
		return m.updateEdit(k)
	}
	return m.updateChoose(k)
}

func (m model) updateChoose(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.isError = "", false
	switch {
	case key.Matches(k, keys.Commit):
		return m.finish(Result{Decision: Commit, Message: m.message})
	case key.Matches(k, keys.Regenerate):
		return m.finish(Result{Decision: Regenerate})
	case key.Matches(k, keys.Abort):
		return m.finish(Result{Decision: Abort})
	case key.Matches(k, keys.Edit):
		m.mode = modeEdit
		m.input.SetValue(m.message)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(k, keys.Copy):
		if m.copy == nil {
			m.status, m.isError = "Clipboard is not available.", true
		} else if err := m.copy(m.message); err != nil {
			m.status, m.isError = "Could not copy to clipboard: "+err.Error(), true
		} else {
			m.status = "Copied to clipboard."
		}
		return m, nil
	default:
		m.status, m.isError = msgInvalidPick, true
		return m, nil
	}
}

func (m model) updateEdit(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case k.Type == tea.KeyCtrlC:
		return m.finish(Result{Decision: Abort})
	case key.Matches(k, keys.Accept):
		edited := strings.TrimSpace(m.input.Value())
		if edited == "" {
			m.status, m.isError = msgEmptyEdit, true
			return m, nil
		}
		return m.finish(Result{Decision: Commit, Message: edited})
	case key.Matches(k, keys.Cancel):
		m.mode = modeChoose
		m.input.Blur()
		m.status, m.isError = "", false
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m model) finish(r Result) (tea.Model, tea.Cmd) {
	m.result = r
	m.done = true
	return m, tea.Quit
}

func (m model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render("Generated commit message"))
	b.WriteString("\n")
	b.WriteString(styleBox.Render(m.message))
	b.WriteString("\n\n")
	if m.mode == modeEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(styleHelp.Render(helpLine(keys.Accept, keys.Cancel)))
	} else {
		b.WriteString(styleHelp.Render(helpLine(keys.choices()...)))
	}
	if m.status != "" {
		b.WriteString("\n")
		if m.isError {
			b.WriteString(styleError.Render(m.status))
		} else {
			b.WriteString(styleStatus.Render(m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

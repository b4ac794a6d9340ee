// Package repl implements an interactive line-at-a-time preview of the
// markup transform.
package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/markex/log"
	"github.com/ardnew/markex/markup"
	"github.com/ardnew/markex/markup/parser"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func helpMessage() string {
	return `
Type an expression containing markup to preview its transform:

  <div className="card">"Title"{body}</div>

Commands:

  help      Print this cruft
  elements  List element names
  clear     Clear screen
  quit      Exit REPL

Press Tab to complete an element name, Up/Down for history,
Ctrl+C or Ctrl+D to exit.
`
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	catalog    *markup.TableCatalog
	logger     log.Logger
	candidates []string
	history    []string
	historyIdx int
	quitting   bool
}

// Run starts the REPL.
func Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start")

	m := newModel(ctx, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	catalog := markup.DefaultCatalog()

	candidates := append(
		catalog.Elements(markup.NamespaceMarkup),
		catalog.Elements(markup.NamespaceVector)...,
	)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		catalog:    catalog,
		logger:     logger,
		candidates: candidates,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if strings.TrimSpace(m.input.Value()) == "" {
		b.WriteString(hintStyle.Render(
			"Type an expression, or: help, elements, clear, quit",
		))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab:
		m.complete()

		return m, nil

	case tea.KeyUp:
		if m.historyIdx > 0 {
			m.historyIdx--
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}

		return m, nil

	case tea.KeyDown:
		switch {
		case m.historyIdx < len(m.history)-1:
			m.historyIdx++
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()

		case m.historyIdx == len(m.history)-1:
			m.historyIdx++
			m.input.SetValue("")
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// submit evaluates the current line: REPL commands are handled directly,
// anything else is parsed and transformed.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	m.input.SetValue("")

	echo := promptStyle.Render(prompt) + line

	switch line {
	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "help":
		return m, tea.Println(echo + "\n" + hintStyle.Render(helpMessage()))

	case "clear":
		return m, tea.ClearScreen

	case "elements":
		return m, tea.Println(echo + "\n" + m.renderElements())
	}

	out, err := m.transform(line)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl transform failed",
			slog.Any("error", err))

		return m, tea.Println(echo + "\n" + errorStyle.Render(err.Error()))
	}

	return m, tea.Println(echo + "\n" + resultStyle.Render(out))
}

// transform runs one expression through the parse-and-rewrite pipeline.
func (m model) transform(src string) (string, error) {
	node, marks, err := parser.ParseExpression(src)
	if err != nil {
		return "", err
	}

	engine := markup.NewEngine(
		m.catalog,
		markup.WithMarks(marks),
		markup.WithLogger(m.logger),
	)

	if err := engine.Rewrite(&node); err != nil {
		return "", err
	}

	return node.String(), nil
}

func (m model) renderElements() string {
	var b strings.Builder

	for _, ns := range []markup.Namespace{
		markup.NamespaceMarkup,
		markup.NamespaceVector,
	} {
		b.WriteString(hintStyle.Render(ns.String() + ":"))
		b.WriteString("\n  ")
		b.WriteString(strings.Join(m.catalog.Elements(ns), " "))
		b.WriteString("\n")
	}

	return b.String()
}

// complete replaces the word at the cursor with its best fuzzy match
// against the element vocabulary.
func (m *model) complete() {
	value := m.input.Value()
	cursor := m.input.Position()

	start := cursor
	for start > 0 && isWordByte(value[start-1]) {
		start--
	}

	word := value[start:cursor]
	if word == "" {
		return
	}

	matches := fuzzy.Find(word, m.candidates)
	if len(matches) == 0 {
		return
	}

	best := matches[0].Str
	m.input.SetValue(value[:start] + best + value[cursor:])
	m.input.SetCursor(start + len(best))
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

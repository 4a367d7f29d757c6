// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/tui"
)

// Runner executes console input lines against the viewer. A line runs
// through the same path batch scripts take, so comments and blank
// lines are skipped rather than sent. *igv.Session implements it.
type Runner interface {
	RunScript(ctx context.Context, script io.Reader) ([]igv.ScriptResult, error)
}

// entryKind classifies a transcript entry for styling.
type entryKind int

const (
	// entryCommand is a line the user submitted.
	entryCommand entryKind = iota
	// entryResponse is a line the viewer returned.
	entryResponse
	// entryError is a failed send or local error.
	entryError
	// entryNotice is console chrome: connection banner, skipped input.
	entryNotice
)

// transcriptEntry is one line of console history.
type transcriptEntry struct {
	kind entryKind
	text string
}

// resultMsg delivers the outcome of a submitted line back into the
// bubbletea loop.
type resultMsg struct {
	results []igv.ScriptResult
	err     error
}

// chromeLines is the fixed vertical space around the transcript:
// header, separator, input line, help bar.
const chromeLines = 4

// Model is the top-level bubbletea model for the batch console.
type Model struct {
	runner Runner
	target string
	theme  Theme
	keys   KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Transcript pane.
	transcript viewport.Model
	entries    []transcriptEntry

	// Input line. A rune buffer with a cursor, edited in place.
	input       []rune
	inputCursor int

	// History recall. historyIndex is -1 when not recalling; while
	// recalling it indexes into history and draft holds whatever was
	// typed before recall started.
	history      []string
	historyIndex int
	draft        string

	// busy is true from submit until the response arrives. The
	// session takes one outstanding request, so submits are gated;
	// typing is not.
	busy bool
}

// New creates a console Model bound to a runner. The target string is
// display-only ("127.0.0.1:60151") and appears in the header.
func New(runner Runner, target string) Model {
	model := Model{
		runner:       runner,
		target:       target,
		theme:        DefaultTheme,
		keys:         DefaultKeyMap,
		historyIndex: -1,
	}
	model.entries = append(model.entries, transcriptEntry{
		kind: entryNotice,
		text: "connected to " + target,
	})
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		switch message.Button {
		case tea.MouseButtonWheelUp:
			model.transcript.LineUp(3)
		case tea.MouseButtonWheelDown:
			model.transcript.LineDown(3)
		}

	case resultMsg:
		model.busy = false
		for _, result := range message.results {
			if result.Response == "" {
				model.appendEntry(entryNotice, "(no response)")
			} else {
				model.appendEntry(entryResponse, result.Response)
			}
		}
		if message.err != nil {
			model.appendEntry(entryError, message.err.Error())
		} else if len(message.results) == 0 {
			model.appendEntry(entryNotice, "(nothing sent)")
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.transcript.Width = model.transcriptWidth()
		model.transcript.Height = model.transcriptHeight()
		model.refreshTranscript(true)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Submit):
		return model.submitLine()

	case key.Matches(message, model.keys.HistoryPrevious):
		model.recallPrevious()

	case key.Matches(message, model.keys.HistoryNext):
		model.recallNext()

	case key.Matches(message, model.keys.ScrollUp):
		model.transcript.HalfViewUp()

	case key.Matches(message, model.keys.ScrollDown):
		model.transcript.HalfViewDown()

	case key.Matches(message, model.keys.ClearLine):
		model.input = nil
		model.inputCursor = 0
		model.historyIndex = -1
		model.draft = ""

	case message.Type == tea.KeyCtrlD:
		// Shell convention: EOF on an empty line quits, otherwise
		// delete the character under the cursor.
		if len(model.input) == 0 {
			return model, tea.Quit
		}
		model.deleteAtCursor()

	case message.Type == tea.KeyBackspace:
		if model.inputCursor > 0 {
			model.input = append(
				model.input[:model.inputCursor-1],
				model.input[model.inputCursor:]...)
			model.inputCursor--
		}

	case message.Type == tea.KeyDelete:
		model.deleteAtCursor()

	case message.Type == tea.KeyLeft:
		if model.inputCursor > 0 {
			model.inputCursor--
		}

	case message.Type == tea.KeyRight:
		if model.inputCursor < len(model.input) {
			model.inputCursor++
		}

	case message.Type == tea.KeyHome || message.Type == tea.KeyCtrlA:
		model.inputCursor = 0

	case message.Type == tea.KeyEnd || message.Type == tea.KeyCtrlE:
		model.inputCursor = len(model.input)

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			// Insert at cursor position.
			model.input = append(model.input, 0)
			copy(model.input[model.inputCursor+1:], model.input[model.inputCursor:])
			model.input[model.inputCursor] = character
			model.inputCursor++
		}
	}

	return model, nil
}

// submitLine sends the current input line to the runner and echoes it
// into the transcript. Empty input and submits while a command is in
// flight are ignored.
func (model Model) submitLine() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(string(model.input))
	if line == "" || model.busy {
		return model, nil
	}

	model.input = nil
	model.inputCursor = 0
	model.historyIndex = -1
	model.draft = ""

	// Consecutive duplicates collapse to one history entry.
	if len(model.history) == 0 || model.history[len(model.history)-1] != line {
		model.history = append(model.history, line)
	}

	model.appendEntry(entryCommand, line)
	model.busy = true

	runner := model.runner
	return model, func() tea.Msg {
		results, err := runner.RunScript(context.Background(), strings.NewReader(line))
		return resultMsg{results: results, err: err}
	}
}

func (model *Model) deleteAtCursor() {
	if model.inputCursor < len(model.input) {
		model.input = append(
			model.input[:model.inputCursor],
			model.input[model.inputCursor+1:]...)
	}
}

// recallPrevious steps backward through command history. The first
// step saves the in-progress input so recallNext can restore it.
func (model *Model) recallPrevious() {
	if len(model.history) == 0 {
		return
	}
	if model.historyIndex == -1 {
		model.draft = string(model.input)
		model.historyIndex = len(model.history) - 1
	} else if model.historyIndex > 0 {
		model.historyIndex--
	}
	model.setInput(model.history[model.historyIndex])
}

// recallNext steps forward through command history, restoring the
// saved draft when stepping past the newest entry.
func (model *Model) recallNext() {
	if model.historyIndex == -1 {
		return
	}
	model.historyIndex++
	if model.historyIndex >= len(model.history) {
		model.historyIndex = -1
		model.setInput(model.draft)
		model.draft = ""
		return
	}
	model.setInput(model.history[model.historyIndex])
}

func (model *Model) setInput(text string) {
	model.input = []rune(text)
	model.inputCursor = len(model.input)
}

func (model *Model) appendEntry(kind entryKind, text string) {
	model.entries = append(model.entries, transcriptEntry{kind: kind, text: text})
	model.refreshTranscript(true)
}

func (model *Model) refreshTranscript(scrollToBottom bool) {
	if !model.ready {
		return
	}
	model.transcript.SetContent(model.transcriptContent())
	if scrollToBottom {
		model.transcript.GotoBottom()
	}
}

// transcriptWidth reserves one column for the scrollbar.
func (model Model) transcriptWidth() int {
	return model.width - 1
}

func (model Model) transcriptHeight() int {
	height := model.height - chromeLines
	if height < 0 {
		height = 0
	}
	return height
}

// transcriptContent renders every entry, wrapped to the transcript
// width so the viewport line count matches what is displayed.
func (model Model) transcriptContent() string {
	width := model.transcriptWidth()
	if width <= 0 {
		return ""
	}

	wrapStyle := lipgloss.NewStyle().Width(width)
	promptStyle := lipgloss.NewStyle().Foreground(model.theme.Prompt).Bold(true)
	commandStyle := lipgloss.NewStyle().Foreground(model.theme.Command)
	responseStyle := lipgloss.NewStyle().Foreground(model.theme.Response)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.Error)
	noticeStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var lines []string
	for _, entry := range model.entries {
		var line string
		switch entry.kind {
		case entryCommand:
			line = promptStyle.Render("> ") + commandStyle.Render(entry.text)
		case entryResponse:
			line = "  " + responseStyle.Render(entry.text)
		case entryError:
			line = "  " + errorStyle.Render(entry.text)
		case entryNotice:
			line = "  " + noticeStyle.Render(entry.text)
		}
		lines = append(lines, wrapStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, model.renderHeader())

	scrollbar := tui.Scrollbar(
		model.theme, model.transcriptHeight(),
		model.transcript.TotalLineCount(), model.transcript.YOffset,
	)
	transcriptArea := lipgloss.JoinHorizontal(lipgloss.Top, model.transcript.View(), scrollbar)
	sections = append(sections, transcriptArea)

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	sections = append(sections, separator)

	sections = append(sections, model.renderInputLine())
	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

func (model Model) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Width(model.width)
	return ansi.Truncate(headerStyle.Render(" igv console · "+model.target), model.width, "…")
}

// renderInputLine draws the prompt and the input buffer with a block
// cursor at the edit position. Input wider than the terminal keeps
// the cursor in view: the line scrolls left with an ellipsis marking
// the hidden head, or truncates on the right while the cursor is
// still visible.
func (model Model) renderInputLine() string {
	promptColor := model.theme.Prompt
	if model.busy {
		promptColor = model.theme.Accent
	}
	promptStyle := lipgloss.NewStyle().Foreground(promptColor).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(model.theme.Command)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	var rendered string
	if model.inputCursor >= len(model.input) {
		rendered = textStyle.Render(string(model.input)) + cursorStyle.Render(" ")
	} else {
		before := string(model.input[:model.inputCursor])
		at := string(model.input[model.inputCursor])
		after := string(model.input[model.inputCursor+1:])
		rendered = textStyle.Render(before) + cursorStyle.Render(at) + textStyle.Render(after)
	}

	const prompt = "igv> "
	line := promptStyle.Render(prompt) + rendered
	if ansi.StringWidth(line) <= model.width {
		return line
	}
	cursorCell := ansi.StringWidth(prompt) + ansi.StringWidth(string(model.input[:model.inputCursor]))
	if cursorCell < model.width-1 {
		return ansi.Truncate(line, model.width-1, "…")
	}
	left := max(0, cursorCell-model.width+2)
	return "…" + ansi.Cut(line, left, cursorCell+1)
}

func (model Model) renderHelp() string {
	bindings := []key.Binding{
		model.keys.Submit,
		model.keys.HistoryPrevious,
		model.keys.ScrollUp,
		model.keys.ClearLine,
		model.keys.Quit,
	}
	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	text := strings.Join(parts, " · ")
	if model.busy {
		text = "sending… · " + text
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Width(model.width)
	return ansi.Truncate(helpStyle.Render(" "+text), model.width, "…")
}

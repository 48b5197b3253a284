// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
)

const (
	title    = "multisync"
	helpText = "'q' to close this view, transfers keep running"
)

// StatusMsg carries a new frame of statuses to the TUI model.
type StatusMsg []supervisor.Status

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Output  lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true).
			PaddingLeft(2), //nolint:mnd
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// Model is the bubbletea model of the TUI display.
type Model struct {
	statuses []supervisor.Status
	spinner  spinner.Model
	styles   *Styles
	width    int
	quitting bool
}

// NewModel creates an empty model.
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return &Model{
		spinner: s,
		styles:  NewStyles(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case StatusMsg:
		m.statuses = msg

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	for _, s := range m.statuses {
		b.WriteString(m.icon(s))
		b.WriteString(" ")
		b.WriteString(m.labelStyle(s).Render(s.Label))
		b.WriteString("\n")
		b.WriteString(m.styles.Output.Render(truncate(s.Line, m.width)))
		b.WriteString("\n")
	}

	if !m.quitting && m.running() {
		b.WriteString(m.styles.Help.Render(helpText))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) running() bool {
	for _, s := range m.statuses {
		if s.State != supervisor.StateFinished {
			return true
		}
	}

	return false
}

func (m *Model) icon(s supervisor.Status) string {
	switch {
	case s.State != supervisor.StateFinished:
		return m.spinner.View()
	case s.ExitCode == 0:
		return m.styles.Success.Render("✓")
	default:
		return m.styles.Failed.Render("✗")
	}
}

func (m *Model) labelStyle(s supervisor.Status) lipgloss.Style {
	switch {
	case s.State != supervisor.StateFinished:
		return m.styles.Running
	case s.ExitCode == 0:
		return m.styles.Success
	default:
		return m.styles.Failed
	}
}

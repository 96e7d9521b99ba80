package cmd

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/style"
	"golang.org/x/term"
)

type stepMsg string

type doneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	step    string
	done    bool
}

func newSpinnerModel() spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.New().Foreground(color.HiPurple)
	return spinnerModel{spinner: s}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.step = string(msg)
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done || m.step == "" {
		return ""
	}
	return m.spinner.View() + " " + style.Faint(m.step)
}

// startSpinner shows the current step on stderr while a run is going.
// It is a no-op when stderr is not a terminal.
func startSpinner() (step func(string), stop func()) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func(string) {}, func() {}
	}

	program := tea.NewProgram(
		newSpinnerModel(),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = program.Run()
	}()

	step = func(s string) { program.Send(stepMsg(s)) }
	stop = func() {
		program.Send(doneMsg{})
		<-finished
	}
	return step, stop
}

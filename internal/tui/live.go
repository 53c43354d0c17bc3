package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/turns"
	"github.com/mvadai/blond/internal/wake"
)

const (
	graphWidth  = 72
	graphHeight = 12
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type TickMsg time.Time

// Model steps one tracked turn per frame and redraws the wake profile.
type Model struct {
	engine     *wake.Engine
	beam       *beam.Particles
	totalTurns int
	frameRate  int

	turn   int
	paused bool
	done   bool
	err    error
	peak   float64
	snap   []float64
}

func NewModel(engine *wake.Engine, b *beam.Particles, totalTurns, frameRate int) Model {
	return Model{
		engine:     engine,
		beam:       b,
		totalTurns: totalTurns,
		frameRate:  frameRate,
		snap:       make([]float64, 0, graphWidth),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
		return m, nil

	case TickMsg:
		if m.paused || m.done || m.err != nil {
			return m, m.tick()
		}

		m.turn++
		if m.turn == 1 {
			m.engine.TrackInitial()
		} else if err := m.engine.TrackContinuation(); err != nil {
			m.err = err
			return m, nil
		}

		induced := m.engine.InducedVoltage()
		m.snap = downsample(induced, graphWidth, m.snap)
		m.peak = turns.PeakAbs(induced)

		if m.turn >= m.totalTurns {
			m.done = true
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("tracking failed: %v\n", m.err)
	}

	header := headerStyle.Render("wake field tracking")

	var graph string
	if len(m.snap) > 0 {
		graph = graphStyle.Render(asciigraph.Plot(m.snap,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("induced voltage along the bunch [V]"),
		))
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("turn")+valueStyle.Render(fmt.Sprintf("%d / %d", m.turn, m.totalTurns)),
		labelStyle.Render("particles")+valueStyle.Render(fmt.Sprintf("%d", m.beam.N())),
		labelStyle.Render("peak |V|")+valueStyle.Render(fmt.Sprintf("%.4e V", m.peak)),
		labelStyle.Render("rms dE")+valueStyle.Render(fmt.Sprintf("%.4e eV", turns.RMS(m.beam.DE))),
	)

	status := ""
	if m.done {
		status = doneStyle.Render("\ncomplete")
	} else if m.paused {
		status = doneStyle.Render("\npaused")
	}

	help := helpStyle.Render("space pause · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, graph, stats, status, help)
}

// Run blocks until the view exits.
func Run(engine *wake.Engine, b *beam.Particles, totalTurns, frameRate int) error {
	p := tea.NewProgram(NewModel(engine, b, totalTurns, frameRate))
	_, err := p.Run()
	return err
}

func downsample(data []float64, width int, buf []float64) []float64 {
	buf = buf[:0]
	if len(data) <= width {
		return append(buf, data...)
	}
	stride := float64(len(data)) / float64(width)
	for i := 0; i < width; i++ {
		buf = append(buf, data[int(float64(i)*stride)])
	}
	return buf
}

// Package viz renders thermostatted runs in the terminal: a bubbletea
// live view plus the lipgloss styles shared with the CLI.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/sim"
)

const (
	historyCapacity = 600
	graphHeight     = 8
	graphWidth      = 64
)

type TickMsg time.Time

// Live is a bubbletea model that advances a simulation in wall-clock
// time and plots temperature and extended-energy histories.
type Live struct {
	model      *sim.Model
	integrator sim.Integrator
	thermo     *forces.Thermostat

	x  sim.Vector
	t  float64
	dt float64

	stepsPerFrame int
	running       bool

	tempHistory   []float64
	energyHistory []float64
}

func NewLive(model *sim.Model, integ sim.Integrator, thermo *forces.Thermostat, dt float64) *Live {
	return &Live{
		model:         model,
		integrator:    integ,
		thermo:        thermo,
		x:             model.Pack(),
		dt:            dt,
		stepsPerFrame: 32,
		running:       true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (l *Live) Init() tea.Cmd {
	return tick()
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		}

	case TickMsg:
		if l.running {
			for i := 0; i < l.stepsPerFrame; i++ {
				l.x = l.integrator.Step(l.model, l.x, l.t, l.dt)
				l.t += l.dt
			}
			l.observe()
		}
		return l, tick()
	}
	return l, nil
}

func (l *Live) observe() {
	energy := l.model.Energy(l.x)
	if l.thermo != nil {
		s := l.model.State()
		l.tempHistory = appendCapped(l.tempHistory, l.thermo.CurrentTemperature(s))
		energy += l.thermo.BathEnergy(s)
	}
	l.energyHistory = appendCapped(l.energyHistory, energy)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

func (l *Live) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("mbforce live"))
	b.WriteString("\n")

	if len(l.energyHistory) > 1 {
		plots := []string{graph(l.energyHistory, "extended energy")}
		if l.thermo != nil && len(l.tempHistory) > 1 {
			plots = append(plots, graph(l.tempHistory, "temperature"))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, plots...))
		b.WriteString("\n")
	}

	status := StatusRunning.Render("running")
	if !l.running {
		status = StatusPaused.Render("paused")
	}

	stats := []string{
		labelStyle.Render("status") + status,
		labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.2f", l.t)),
	}
	if l.thermo != nil && len(l.tempHistory) > 0 {
		stats = append(stats,
			labelStyle.Render("temperature")+valueStyle.Render(fmt.Sprintf("%.4f", l.tempHistory[len(l.tempHistory)-1])))
	}
	b.WriteString(statsStyle.Render(strings.Join(stats, "\n")))

	b.WriteString(helpStyle.Render("\nspace pause · q quit"))
	return b.String()
}

func graph(data []float64, caption string) string {
	plot := asciigraph.Plot(trimTo(data, graphWidth),
		asciigraph.Height(graphHeight),
		asciigraph.Caption(caption))
	return graphStyle.Render(plot)
}

func trimTo(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}

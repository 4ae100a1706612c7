/*package tui runs a scene inside a terminal. Each character of the terminal
is treated as a PixelsPerCell-wide square of pixels, the mouse moves the
obstacle and the frame loop is driven by bubbletea ticks.
*/
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/phil-mansfield/flipascii/flip"
	"github.com/phil-mansfield/flipascii/io"
	"github.com/phil-mansfield/flipascii/loop"
	"github.com/phil-mansfield/flipascii/render"
	"github.com/phil-mansfield/flipascii/scene"
)

// PixelsPerCell is the size in pixels given to one terminal character. It is
// the smallest cell a layout will use, so small terminals get one cell per
// character.
const PixelsPerCell = flip.MinGridSize

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

type tickMsg time.Time

// ReloadMsg carries a re-read config file into a running Model.
type ReloadMsg struct {
	Config *io.FluidConfig
	Err    error
}

// Model is the bubbletea model of an interactive session. The scene is built
// on the first window size message.
type Model struct {
	Scene *scene.Scene
	sched *loop.Scheduler
	tint  *render.Tint
	con   *io.FluidConfig
	log   *zap.Logger

	interval      time.Duration
	width, height int
	color         bool
	err           error
}

// New returns a model which will run with con. A nil logger discards
// messages.
func New(con *io.FluidConfig, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		sched:    loop.NewScheduler(log),
		tint:     render.DefaultTint(render.DefaultPalette()),
		con:      con,
		log:      log,
		interval: time.Second / time.Duration(con.FPS),
		color:    true,
	}
}

// Scheduler returns the frame loop of the model.
func (m Model) Scheduler() *loop.Scheduler { return m.sched }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the frame loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sched.Dispose()
			return m, tea.Quit
		case " ":
			if m.Scene != nil {
				m.Scene.TogglePause()
			}
		case "e":
			if m.Scene != nil {
				m.Scene.Explode()
			}
		case "r":
			m.resize(m.width, m.height)
		case "c":
			m.color = !m.color
		}
	case ReloadMsg:
		m.reload(msg)
	case tickMsg:
		m.sched.Tick(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	// The last line holds the status bar.
	w := float64(width * PixelsPerCell)
	h := float64(max(height-1, 1) * PixelsPerCell)

	if m.Scene == nil {
		m.Scene = scene.New(w, h, m.con, m.sched)
		m.Scene.Attach(m.sched)
	} else {
		m.Scene.Resize(w, h)
	}
	m.log.Debug("Rebuilt tank.",
		zap.Int("width", width), zap.Int("height", height),
		zap.Int("nx", m.Scene.Tank.NX), zap.Int("ny", m.Scene.Tank.NY),
		zap.Int("particles", m.Scene.Tank.NumParticles))
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.Scene == nil {
		return
	}
	m.Scene.PointAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.Scene.Press()
		case tea.MouseButtonRight:
			m.Scene.Explode()
		}
	case tea.MouseActionRelease:
		m.Scene.Release()
	}
}

func (m *Model) reload(msg ReloadMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		m.log.Warn("Config reload failed.", zap.Error(msg.Err))
		return
	}
	m.err = nil
	m.con = msg.Config
	m.interval = time.Second / time.Duration(msg.Config.FPS)
	if m.Scene != nil {
		m.Scene.SetConfig(msg.Config)
	}
	m.log.Info("Reloaded config.")
}

// View draws the latest frame with a status bar underneath.
func (m Model) View() string {
	if m.Scene == nil {
		return "Starting..."
	}

	frame := m.Scene.Frame()
	if m.color {
		frame = m.tint.Apply(frame)
	}

	sb := &strings.Builder{}
	sb.WriteString(frame)
	sb.WriteString(m.status())
	return sb.String()
}

func (m Model) status() string {
	t := m.Scene.Tank
	s := statusStyle.Render(fmt.Sprintf(
		"frame %d  particles %d  radius %.2f  "+
			"[space] pause  [e] explode  [r] reset  [c] color  [q] quit",
		m.Scene.Frames(), t.NumParticles, m.Scene.Obstacle().Radius,
	))
	if m.Scene.Paused {
		s = pausedStyle.Render("PAUSED") + "  " + s
	}
	if m.err != nil {
		s += "  " + errorStyle.Render(m.err.Error())
	}
	return s
}

// NewProgram wraps m in a full screen program with mouse motion events which
// stops when ctx is cancelled.
func NewProgram(ctx context.Context, m Model) *tea.Program {
	return tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
}

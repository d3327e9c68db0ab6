package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatsim/internal/snapshot"
)

const (
	width  = 60
	height = 16
)

type TickMsg time.Time

// Replay plays a recorded snapshot series back in the terminal. It never
// steps the solver; the series is complete before the program starts.
type Replay struct {
	title    string
	series   snapshot.Series
	lo, hi   float64
	frame    int
	running  bool
	loop     bool
	interval time.Duration
	theme    Theme
	canvas   *Canvas
	showHelp bool
}

// NewReplay prepares a replay at fps frames per second.
func NewReplay(title string, series snapshot.Series, fps int) Replay {
	if fps <= 0 {
		fps = 20
	}
	lo, hi := AxisRange(series)
	return Replay{
		title:    title,
		series:   series,
		lo:       lo,
		hi:       hi,
		running:  true,
		interval: time.Second / time.Duration(fps),
		theme:    ThemeThermal,
		canvas:   NewCanvas(width, height),
	}
}

// AxisRange spans every value of the series with 5% headroom, the
// -5..105 axis for a rod between 0 and 100 degrees.
func AxisRange(series snapshot.Series) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, fr := range series {
		for _, v := range fr.Field {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return -1, 1
	}
	pad := 0.05 * (hi - lo)
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func (m Replay) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.frame >= len(m.series)-1 {
				m.frame = 0
			}
		case "r":
			m.frame = 0
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "l":
			m.loop = !m.loop
		case "t":
			m.theme = m.theme.next()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Replay) advance() {
	if len(m.series) == 0 {
		m.running = false
		return
	}
	if m.frame < len(m.series)-1 {
		m.frame++
		return
	}
	if m.loop {
		m.frame = 0
		return
	}
	m.running = false
}

func (m *Replay) scrub(dir int) {
	m.running = false
	m.frame += dir
	if m.frame < 0 {
		m.frame = 0
	}
	if n := len(m.series); m.frame >= n {
		m.frame = max(n-1, 0)
	}
}

// Frame is the index of the frame on screen.
func (m Replay) Frame() int { return m.frame }

func (m Replay) Running() bool { return m.running }

func (m Replay) View() string {
	if len(m.series) == 0 {
		return "no snapshots recorded (run with --sample-every)\n"
	}
	fr := m.series[m.frame]

	m.canvas.Clear()
	m.canvas.DrawProfile(fr.Field, m.lo, m.hi)
	plot := lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.canvas.String())
	strip := HeatStrip(fr.Field, m.lo, m.hi, width, m.theme)
	canvasView := canvasStyle.Render(plot + "\n" + strip)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.running:
		s.WriteString(StatusRunning.Render("PLAYING"))
	case m.frame == len(m.series)-1:
		s.WriteString(StatusPaused.Render("FINISHED"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	fmin, fmax := math.Inf(1), math.Inf(-1)
	for _, v := range fr.Field {
		fmin, fmax = math.Min(fmin, v), math.Max(fmax, v)
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f s", fr.Time)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", m.frame+1, len(m.series))) + "\n")
	s.WriteString(labelStyle.Render("Min") + valueStyle.Render(fmt.Sprintf("%.2f", fmin)) + "\n")
	s.WriteString(labelStyle.Render("Max") + valueStyle.Render(fmt.Sprintf("%.2f", fmax)) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(m.theme.Name) + "\n")
	if fmin < m.lo || fmax > m.hi {
		s.WriteString(StatusWarning.Render("values outside axis") + "\n")
	}

	progress := 0.0
	if len(m.series) > 1 {
		progress = float64(m.frame) / float64(len(m.series)-1)
	}
	s.WriteString("\n" + ProgressBar(progress, 24) + "\n")
	s.WriteString(helpStyle.Render("SP:Play R:Restart Q:Quit\n[ ]:Step L:Loop T:Theme"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
  Space  play / pause
  R      restart from t=0
  [ ]    step one frame back / forward
  L      toggle looping
  T      cycle themes
  Q      quit
` + "\n" + view
	}
	return view
}

// RunReplay blocks until the user quits the replay.
func RunReplay(title string, series snapshot.Series, fps int) error {
	_, err := tea.NewProgram(NewReplay(title, series, fps)).Run()
	return err
}

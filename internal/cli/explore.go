package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/pipeline"
	"github.com/matzehuels/movegraph/pkg/render/scene"
	"github.com/matzehuels/movegraph/pkg/style"
	"github.com/matzehuels/movegraph/pkg/viewer"
)

// A terminal cell stands for cellWidth x cellHeight model pixels at zoom 1.
const (
	cellWidth  = 8
	cellHeight = 16

	panStep    = 4 * cellWidth
	zoomFactor = 1.25
	fitPadding = 2 * cellWidth
)

var (
	exploreTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreEdgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	exploreStatusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// exploreCommand creates the explore command, an interactive terminal view
// over the same session the HTTP server uses.
func (c *CLI) exploreCommand() *cobra.Command {
	var mode, engine string

	cmd := &cobra.Command{
		Use:   "explore [moveset]",
		Short: "Explore the moves graph in the terminal",
		Long: `Explore the moves graph in the terminal.

Keys:
  + / -         zoom in and out
  arrows, hjkl  pan
  1 2 3         concentric, dagre and cola layout
  tab           select the next move
  enter         focus the selected move
  f             fit the graph
  t             toggle labels
  c             next edge curve style
  r             reset colors
  q             quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, mode, engine)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "initial layout mode: concentric, dagre, cola")
	cmd.Flags().StringVar(&engine, "engine", "", "layout engine: graphviz, native")
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, mode, engine string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyEngineFlag(cfg, engine)
	if mode != "" {
		cfg.Layout.Mode = mode
	}

	src, err := c.openSource(cfg, args)
	if err != nil {
		return err
	}
	eng, err := pipeline.NewEngine(cfg.Layout.Engine, c.Logger)
	if err != nil {
		return err
	}

	opts := viewer.DefaultOptions()
	opts.Style = cfg.Style
	opts.Layout = cfg.Layout.Options
	opts.Engine = eng
	opts.Mode = cfg.Mode()
	opts.Logger = c.Logger
	sess := viewer.New(opts)
	defer sess.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", src.Describe()))
	spinner.Start()
	if err := sess.Initialize(ctx, src); err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	_, err = tea.NewProgram(newExploreModel(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// layoutDoneMsg reports the end of a layout switch started from the keyboard.
type layoutDoneMsg struct {
	mode layout.Mode
	err  error
}

// exploreModel is the bubbletea model of the terminal explorer.
type exploreModel struct {
	ctx      context.Context
	session  *viewer.Session
	ids      []string
	selected int // index into ids, -1 for none
	cols     int
	rows     int
	status   string
}

func newExploreModel(ctx context.Context, s *viewer.Session) exploreModel {
	m := exploreModel{ctx: ctx, session: s, selected: -1, cols: 80, rows: 24}
	if g := s.Graph(); g != nil {
		m.ids = g.NodeIDs()
	}
	return m
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.session.Resize(float64(m.cols*cellWidth), float64(m.canvasRows()*cellHeight))
		m.session.Fit(fitPadding)
	case layoutDoneMsg:
		switch {
		case errors.Is(msg.err, layout.ErrSuperseded):
		case msg.err != nil:
			m.status = mgerrors.UserMessage(msg.err)
		default:
			m.status = fmt.Sprintf("%s layout", msg.mode)
			m.session.Fit(fitPadding)
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m exploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.State()
	center := layout.Point{X: st.Width / 2, Y: st.Height / 2}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		m.session.ZoomAt(zoomFactor, center)
	case "-", "_":
		m.session.ZoomAt(1/zoomFactor, center)
	case "left", "h":
		m.session.Pan(panStep, 0)
	case "right", "l":
		m.session.Pan(-panStep, 0)
	case "up", "k":
		m.session.Pan(0, panStep)
	case "down", "j":
		m.session.Pan(0, -panStep)
	case "1", "2", "3":
		mode := layout.Modes()[int(msg.String()[0]-'1')]
		m.status = fmt.Sprintf("computing %s layout...", mode)
		return m, m.setMode(mode)
	case "f":
		m.session.Fit(fitPadding)
	case "tab":
		if len(m.ids) > 0 {
			m.selected = (m.selected + 1) % len(m.ids)
		}
	case "enter":
		if m.selected >= 0 {
			if _, _, err := m.session.Focus(m.ids[m.selected]); err != nil {
				m.status = mgerrors.UserMessage(err)
			}
		}
	case "t":
		m.session.SetShowLabels(!st.ShowLabels)
	case "c":
		next := nextCurve(st.Curve)
		if err := m.session.SetCurveStyle(string(next)); err == nil {
			m.status = "curve " + string(next)
		}
	case "r":
		m.session.ResetColors()
		m.status = "colors reset"
	}
	return m, nil
}

func (m exploreModel) setMode(mode layout.Mode) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.SetLayoutMode(m.ctx, string(mode))
		return layoutDoneMsg{mode: mode, err: err}
	}
}

func nextCurve(c style.Curve) style.Curve {
	curves := style.Curves()
	i := slices.Index(curves, c)
	return curves[(i+1)%len(curves)]
}

// canvasRows leaves two lines for the title and the status bar.
func (m exploreModel) canvasRows() int { return max(1, m.rows-2) }

func (m exploreModel) View() string {
	st := m.session.State()
	sc := m.session.Scene()

	var b strings.Builder
	b.WriteString(exploreTitleStyle.Render(fmt.Sprintf("movegraph  %s  zoom %.2f", st.Mode, st.Zoom)))
	b.WriteString("\n")
	b.WriteString(m.canvas(sc).render())
	b.WriteString(exploreStatusStyle.Render(m.statusLine()))
	return b.String()
}

func (m exploreModel) statusLine() string {
	if m.selected >= 0 {
		if tip, err := m.session.Tooltip(m.ids[m.selected]); err == nil {
			parts := []string{tip.Label}
			if tip.Type != "" {
				parts = append(parts, tip.Type)
			}
			if tip.Area != "" {
				parts = append(parts, tip.Area)
			}
			parts = append(parts, fmt.Sprintf("%d parents, %d children", len(tip.Parents), len(tip.Children)))
			return strings.Join(parts, " | ")
		}
	}
	if m.status != "" {
		return m.status
	}
	return "tab select  enter focus  1/2/3 layout  q quit"
}

// canvas rasterizes the scene onto the terminal grid.
func (m exploreModel) canvas(sc scene.Scene) *grid {
	st := m.session.State()
	g := newGrid(m.cols, m.canvasRows())

	cell := func(p layout.Point) (int, int) {
		s := st.ToScreen(p)
		return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
	}

	pos := make(map[string]layout.Point, len(sc.Nodes))
	for _, n := range sc.Nodes {
		if n.Placed {
			pos[n.ID] = n.Position
		}
	}
	for _, e := range sc.Edges {
		from, ok1 := pos[e.Source]
		to, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		x0, y0 := cell(from)
		x1, y1 := cell(to)
		if !g.near(x0, y0) && !g.near(x1, y1) {
			continue
		}
		g.line(x0, y0, x1, y1, '·', &exploreEdgeStyle)
	}

	selected := ""
	if m.selected >= 0 {
		selected = m.ids[m.selected]
	}
	for _, n := range sc.Nodes {
		if !n.Placed {
			continue
		}
		x, y := cell(n.Position)
		ns := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Attrs.Fill))
		if n.ID == selected {
			ns = exploreSelectedStyle
		}
		g.set(x, y, '●', &ns)
		if n.Attrs.ShowLabel {
			g.text(x+2, y, n.Attrs.Label, &ns)
		}
	}
	return g
}

// grid is a fixed-size character canvas with a style per cell. Adjacent
// cells sharing a style pointer are rendered as one run.
type grid struct {
	cols, rows int
	runes      [][]rune
	styles     [][]*lipgloss.Style
}

func newGrid(cols, rows int) *grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &grid{cols: cols, rows: rows}
	g.runes = make([][]rune, rows)
	g.styles = make([][]*lipgloss.Style, rows)
	for y := range rows {
		g.runes[y] = []rune(strings.Repeat(" ", cols))
		g.styles[y] = make([]*lipgloss.Style, cols)
	}
	return g
}

func (g *grid) set(x, y int, r rune, st *lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.runes[y][x] = r
	g.styles[y][x] = st
}

func (g *grid) text(x, y int, s string, st *lipgloss.Style) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, st)
	}
}

// near reports whether a cell is within one screen of the canvas, which
// bounds the work spent on edges far out of view.
func (g *grid) near(x, y int) bool {
	return x >= -g.cols && x < 2*g.cols && y >= -g.rows && y < 2*g.rows
}

// line draws a Bresenham line, leaving the end points untouched.
func (g *grid) line(x0, y0, x1, y1 int, r rune, st *lipgloss.Style) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	x, y := x0, y0
	for x != x1 || y != y1 {
		if (x != x0 || y != y0) && g.runes[clamp(y, g.rows)][clamp(x, g.cols)] == ' ' {
			g.set(x, y, r, st)
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// render joins runs of equally styled cells so each run is styled once.
func (g *grid) render() string {
	var b strings.Builder
	for y := range g.rows {
		start := 0
		for x := 1; x <= g.cols; x++ {
			if x < g.cols && g.styles[y][x] == g.styles[y][start] {
				continue
			}
			run := string(g.runes[y][start:x])
			if st := g.styles[y][start]; st != nil {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		b.WriteString("\n")
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func clamp(v, n int) int { return min(max(v, 0), n-1) }

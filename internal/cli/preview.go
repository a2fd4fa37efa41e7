package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/scene"
)

// Grid bounds for the preview, in terminal cells.
const (
	previewMinCols = 20
	previewMaxCols = 120
	previewMaxRows = 40
)

var (
	previewFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewFixedStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewItemStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	previewErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "preview <scene>",
		Short: "Browse layouts of a scene in the terminal",
		Long: `Show a scene's layout as a character grid. Press n for the next seed,
p for the previous one, and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.ReadFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				if s, ok := sc.EffectiveSeed(); ok {
					seed = s
				}
			}
			m := newPreviewModel(sc, c.Config.PlacementConfig(), seed, c.Logger)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if err != nil && cmd.Context().Err() != nil {
				return context.Canceled
			}
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 1, "first seed to show (default: the scene seed, or 1)")
	return cmd
}

// previewModel is the bubbletea model for browsing seeds of one scene.
type previewModel struct {
	scene  *scene.Scene
	cfg    placement.Config
	logger *log.Logger

	seed   uint64
	result *scene.Result
	err    error

	width int
}

func newPreviewModel(sc *scene.Scene, cfg placement.Config, seed uint64, logger *log.Logger) previewModel {
	m := previewModel{scene: sc, cfg: cfg, logger: logger, seed: seed, width: 80}
	m.relayout()
	return m
}

// relayout places the scene with the current seed.
func (m *previewModel) relayout() {
	sc := *m.scene
	seed := m.seed
	sc.Seed = &seed
	sc.SeedKey = ""
	m.result, m.err = scene.Run(&sc, m.cfg, nil)
	if m.err == nil && m.logger != nil {
		m.logger.Debug("preview layout", "seed", seed, "grows", m.result.Grows)
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right", "l":
			m.seed++
			m.relayout()
		case "p", "left", "h":
			if m.seed > 0 {
				m.seed--
				m.relayout()
			}
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("veifa preview"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  seed %d", m.seed)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(previewErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(layoutStats(m.result, false))
		b.WriteString("\n")
		cols := min(max(m.width-4, previewMinCols), previewMaxCols)
		rows := gridRows(m.result.Container, cols)
		b.WriteString(previewFrameStyle.Render(colorGrid(asciiGrid(m.result, cols, rows))))
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render("n next seed · p previous seed · q quit"))
	return b.String()
}

// gridRows picks a row count that keeps the container's aspect ratio,
// given terminal cells roughly twice as tall as they are wide.
func gridRows(container placement.Size, cols int) int {
	if container.Width <= 0 {
		return 1
	}
	rows := int(math.Round(float64(cols) * container.Height / container.Width / 2))
	return min(max(rows, 1), previewMaxRows)
}

// asciiGrid draws a layout on a cols x rows character grid. Fixed
// obstacles are '#', items cycle through 'a'..'z', and cells covered by
// more than one rect are '*'.
func asciiGrid(res *scene.Result, cols, rows int) []string {
	grid := make([][]byte, rows)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(".", cols))
	}
	if res.Container.Height <= 0 || res.Container.Width <= 0 {
		return toLines(grid)
	}
	sy := float64(rows) / res.Container.Height
	sx := float64(cols) / res.Container.Width

	item := 0
	for _, p := range res.Placements {
		mark := byte('#')
		if !p.Fixed {
			mark = 'a' + byte(item%26)
			item++
		}
		r0, r1 := cellRange(p.Top, p.Height, sy, rows)
		c0, c1 := cellRange(p.Left, p.Width, sx, cols)
		for r := r0; r < r1; r++ {
			for c := c0; c < c1; c++ {
				if grid[r][c] == '.' {
					grid[r][c] = mark
				} else {
					grid[r][c] = '*'
				}
			}
		}
	}
	return toLines(grid)
}

// cellRange maps [start, start+extent) to grid cells, clamped to [0, n).
func cellRange(start, extent, scale float64, n int) (int, int) {
	lo := int(math.Floor(start * scale))
	hi := int(math.Ceil((start + extent) * scale))
	return min(max(lo, 0), n), min(max(hi, 0), n)
}

func toLines(grid [][]byte) []string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

func colorGrid(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range line {
			switch {
			case ch == '#':
				b.WriteString(previewFixedStyle.Render("#"))
			case ch == '.':
				b.WriteString(StyleDim.Render("."))
			default:
				b.WriteString(previewItemStyle.Render(string(ch)))
			}
		}
	}
	return b.String()
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawScene clears the screen and projects the live scene tree onto it
// in depth-first declaration order, so later siblings draw over earlier
// ones. An invisible or fully transparent node hides its whole subtree.
func DrawScene(s *core.Screen, scene *cart.Scene, proj core.Projection) {
	s.Clear()
	if scene == nil {
		return
	}
	for _, root := range scene.Nodes {
		drawNode(s, root, proj)
	}
}

func drawNode(s *core.Screen, n *cart.Node, proj core.Projection) {
	if !n.Visible || n.Transform.Alpha <= 0 {
		return
	}

	color := core.ColorDefault
	if name, ok := n.Params["color"].(string); ok {
		color = core.ColorByName(name)
	}
	x, y := proj.ToCell(n.Transform.X, n.Transform.Y)

	switch n.Type {
	case "group":
		// Containers position children but draw nothing themselves.
	case "label":
		if text, ok := n.Params["text"].(string); ok {
			s.DrawText(x-len(text)/2, y, text, color)
		}
	default:
		glyph := '█'
		if g, ok := n.Params["glyph"].(string); ok && g != "" {
			glyph = []rune(g)[0]
		}
		w, h := 1, 1
		if ww, wh, ok := n.Size(); ok {
			w, h = proj.SpanToCells(ww, wh)
		}
		// Nodes are positioned by their center, matching hit testing.
		// Fully offscreen sprites are culled rather than clipped cell
		// by cell.
		r := core.NewRect(x-w/2, y-h/2, w, h)
		if r.Intersects(s.Bounds()) {
			s.DrawRect(r, glyph, color)
		}
	}

	for _, child := range n.Children {
		drawNode(s, child, proj)
	}
}

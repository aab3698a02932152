package tui

import (
	"strings"
	"testing"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/core"
)

func testProjection() core.Projection {
	return core.Projection{WorldW: 800, WorldH: 600, ScreenW: 80, ScreenH: 24}
}

func TestDrawSceneLabel(t *testing.T) {
	s := core.NewScreen(80, 24)
	scene := &cart.Scene{
		ID: "s",
		Nodes: []*cart.Node{
			{
				ID:        "title",
				Type:      "label",
				Visible:   true,
				Transform: cart.Transform2D{X: 400, Y: 300, Alpha: 1},
				Params:    map[string]any{"text": "HELLO", "color": "cyan"},
			},
		},
	}

	DrawScene(s, scene, testProjection())

	row := s.Row(12)
	if !strings.Contains(row, "HELLO") {
		t.Errorf("label not drawn, row 12 = %q", row)
	}
	// Label text is centered on the node position.
	if s.GetCell(38, 12).Rune != 'H' {
		t.Errorf("label not centered, cell (38,12) = %q", s.GetCell(38, 12).Rune)
	}
	if s.GetCell(38, 12).Color != core.ColorCyan {
		t.Errorf("label color = %v, expected cyan", s.GetCell(38, 12).Color)
	}
}

func TestDrawSceneSpriteUsesGlyphAndSize(t *testing.T) {
	s := core.NewScreen(80, 24)
	scene := &cart.Scene{
		ID: "s",
		Nodes: []*cart.Node{
			{
				ID:        "paddle",
				Type:      "sprite",
				Visible:   true,
				Transform: cart.Transform2D{X: 400, Y: 550, Alpha: 1},
				Params:    map[string]any{"glyph": "=", "width": 80.0, "height": 25.0, "color": "yellow"},
			},
		},
	}

	DrawScene(s, scene, testProjection())

	// 80 world units of width project to 8 cells, centered on x=40.
	y := 22
	for x := 36; x < 44; x++ {
		cell := s.GetCell(x, y)
		if cell.Rune != '=' || cell.Color != core.ColorYellow {
			t.Fatalf("expected yellow '=' at (%d, %d), got %+v", x, y, cell)
		}
	}
	if s.GetCell(35, y).Rune == '=' || s.GetCell(44, y).Rune == '=' {
		t.Error("sprite drew outside its projected extents")
	}
}

func TestDrawSceneOffscreenSpriteLeavesScreenBlank(t *testing.T) {
	s := core.NewScreen(80, 24)
	scene := &cart.Scene{
		ID: "s",
		Nodes: []*cart.Node{
			{
				ID:        "gone",
				Type:      "sprite",
				Visible:   true,
				Transform: cart.Transform2D{X: -500, Y: 300, Alpha: 1},
				Params:    map[string]any{"width": 80.0, "height": 25.0},
			},
		},
	}

	DrawScene(s, scene, testProjection())

	if strings.TrimSpace(s.String()) != "" {
		t.Error("a sprite entirely off the canvas should draw nothing")
	}
}

func TestDrawSceneInvisibleHidesSubtree(t *testing.T) {
	s := core.NewScreen(80, 24)
	scene := &cart.Scene{
		ID: "s",
		Nodes: []*cart.Node{
			{
				ID:        "root",
				Type:      "group",
				Visible:   false,
				Transform: cart.Transform2D{Alpha: 1},
				Children: []*cart.Node{
					{
						ID:        "child",
						Type:      "label",
						Visible:   true,
						Transform: cart.Transform2D{X: 400, Y: 300, Alpha: 1},
						Params:    map[string]any{"text": "GHOST"},
					},
				},
			},
		},
	}

	DrawScene(s, scene, testProjection())

	if strings.Contains(s.String(), "GHOST") {
		t.Error("children of an invisible node should not draw")
	}
}

func TestDrawSceneZeroAlphaSkipped(t *testing.T) {
	s := core.NewScreen(80, 24)
	scene := &cart.Scene{
		ID: "s",
		Nodes: []*cart.Node{
			{
				ID:        "faded",
				Type:      "label",
				Visible:   true,
				Transform: cart.Transform2D{X: 400, Y: 300, Alpha: 0},
				Params:    map[string]any{"text": "FADED"},
			},
		},
	}

	DrawScene(s, scene, testProjection())

	if strings.Contains(s.String(), "FADED") {
		t.Error("fully transparent nodes should not draw")
	}
}

func TestDrawSceneNilScene(t *testing.T) {
	s := core.NewScreen(10, 4)
	s.DrawText(0, 0, "stale", core.ColorDefault)

	DrawScene(s, nil, testProjection())

	if strings.TrimSpace(s.String()) != "" {
		t.Error("nil scene should clear the screen")
	}
}

func TestRenderScreenPlainContent(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "AB", core.ColorDefault)

	out := RenderScreen(s)
	if !strings.Contains(out, "AB") {
		t.Errorf("rendered output missing content: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 1 newline for 2 rows, got %d", strings.Count(out, "\n"))
	}
}

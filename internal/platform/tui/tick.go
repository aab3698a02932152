package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent on every animation frame with the wall-clock time.
// The engine's fixed-step clock decides how many simulation ticks the
// frame is worth; the message rate only bounds how often we draw.
type FrameMsg time.Time

// frameCmd returns a command that triggers the next frame.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

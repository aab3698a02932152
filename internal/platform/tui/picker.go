package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/core"
	"github.com/pixelcart/pixelcart/internal/storage"
)

// PickerModel is the Bubble Tea model for the cartridge picker.
type PickerModel struct {
	carts     []*cart.Cartridge
	cursor    int
	width     int
	height    int
	store     *storage.Store
	keyMapper *KeyMapper
	quitting  bool
	selected  *cart.Cartridge
}

// NewPickerModel creates a picker over the given cartridges.
func NewPickerModel(carts []*cart.Cartridge, store *storage.Store, width, height int) PickerModel {
	return PickerModel{
		carts:     carts,
		width:     width,
		height:    height,
		store:     store,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for picker navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, core.Max(0, len(m.carts)-1))

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, core.Max(0, len(m.carts)-1))

	case MenuActionSelect:
		if len(m.carts) > 0 {
			m.selected = m.carts[m.cursor]
		}
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "  P I X E L C A R T  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	subtitle := "Select a cartridge"
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	for i, c := range m.carts {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		label := c.Title
		if label == "" {
			label = c.ID
		}
		if c.Author != "" {
			label += " by " + c.Author
		}
		if plays := m.playCount(c.ID); plays > 0 {
			label += fmt.Sprintf(" (%d plays)", plays)
		}

		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// playCount returns the recorded session count for a cartridge, or 0
// when storage is unavailable.
func (m PickerModel) playCount(cartridgeID string) int {
	if m.store == nil {
		return 0
	}
	stats, err := m.store.GetSessionStats(cartridgeID)
	if err != nil || stats == nil {
		return 0
	}
	return stats.SessionCount
}

// Selected returns the chosen cartridge, or nil if none selected.
func (m PickerModel) Selected() *cart.Cartridge {
	return m.selected
}

// IsQuitting returns true if the user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

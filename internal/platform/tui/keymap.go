package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pixelcart/pixelcart/internal/input"
)

// KeyMapper translates Bubble Tea key messages to logical input actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	actions map[string]string // physical key -> logical action
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	actions := make(map[string]string)
	for action, keys := range input.DefaultBindings {
		for _, key := range keys {
			actions[key] = action
		}
	}
	return &KeyMapper{actions: actions}
}

// MapKey translates a key message to a logical action. The second
// result reports whether the key is bound.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (string, bool) {
	action, ok := km.actions[msg.String()]
	return action, ok
}

// MenuAction represents a picker-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a picker action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}

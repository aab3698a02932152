package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/config"
	"github.com/pixelcart/pixelcart/internal/core"
	"github.com/pixelcart/pixelcart/internal/runtime"
	"github.com/pixelcart/pixelcart/internal/script"
	"github.com/pixelcart/pixelcart/internal/storage"
)

// PlayOptions configures one cartridge session. The audio manager is
// supplied by the caller: a real synthesizer for local play, a no-op
// for SSH sessions where there is no speaker to drive.
type PlayOptions struct {
	Store    *storage.Store
	Config   config.Config
	Audio    script.AudioManager
	Seed     int64
	SaveSlot int // -1 disables save/restore
	Width    int
	Height   int
}

// PlayModel is the Bubble Tea model running one cartridge session.
type PlayModel struct {
	engine *runtime.Engine
	term   *TermInput
	screen *core.Screen
	proj   core.Projection
	store  *storage.Store
	keys   *KeyMapper

	seed         int64
	saveSlot     int
	fps          int
	showMetrics  bool
	startedAt    time.Time
	quitting     bool
	backToPicker bool
	sessionSaved bool
}

// NewPlayModel creates a model for the given cartridge.
func NewPlayModel(c *cart.Cartridge, opts PlayOptions) (PlayModel, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	term := NewTermInput()
	engine, err := runtime.New(c, runtime.Options{
		TickRate: opts.Config.Clock.TickRate,
		Seed:     seed,
		Audio:    opts.Audio,
		Input:    term,
	})
	if err != nil {
		return PlayModel{}, fmt.Errorf("tui: %w", err)
	}

	return PlayModel{
		engine: engine,
		term:   term,
		screen: core.NewScreen(opts.Width, opts.Height),
		proj: core.Projection{
			WorldW:  opts.Config.Display.WorldWidth,
			WorldH:  opts.Config.Display.WorldHeight,
			ScreenW: opts.Width,
			ScreenH: opts.Height,
		},
		store:       opts.Store,
		keys:        NewKeyMapper(),
		seed:        seed,
		saveSlot:    opts.SaveSlot,
		fps:         opts.Config.Clock.TickRate,
		showMetrics: opts.Config.Display.ShowMetrics,
		startedAt:   time.Now(),
	}, nil
}

// Init starts the session and the frame loop. A restorable save slot
// resumes at the saved scene with the saved variables.
func (m PlayModel) Init() tea.Cmd {
	if save := m.loadSave(); save != nil {
		m.engine.StartAt(save.SceneID, save.Variables)
	} else {
		m.engine.Start()
	}
	return frameCmd(m.fps)
}

// loadSave fetches the configured save slot, or nil when saving is off,
// storage is unavailable, or the slot is empty.
func (m PlayModel) loadSave() *storage.SaveSlot {
	if m.store == nil || m.saveSlot < 0 {
		return nil
	}
	save, err := m.store.LoadSave(m.engine.Cartridge().ID, m.saveSlot)
	if err != nil {
		return nil
	}
	return save
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.proj.ScreenW = msg.Width
		m.proj.ScreenH = msg.Height
		return m, nil

	case FrameMsg:
		m.engine.Frame(time.Time(msg))
		m.term.EndFrame()
		return m, frameCmd(m.fps)
	}

	return m, nil
}

// handleKey processes keyboard input: host controls first, then the
// logical actions cartridges listen for.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.persist()
		m.engine.Stop()
		m.quitting = true
		return m, tea.Quit
	case "b":
		m.persist()
		m.engine.Stop()
		m.backToPicker = true
		return m, nil
	case "p":
		if m.engine.Clock().Paused() {
			m.engine.Resume()
		} else {
			m.engine.Pause()
		}
		return m, nil
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if action, ok := m.keys.MapKey(msg); ok {
		m.term.Tap(action)
	}
	return m, nil
}

// handleMouse forwards pointer motion and button transitions, converting
// cell coordinates to world space.
func (m PlayModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	wx, wy := m.proj.ToWorld(msg.X, msg.Y)
	m.term.SetPointer(wx, wy)

	button := -1
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = 0
	case tea.MouseButtonMiddle:
		button = 1
	case tea.MouseButtonRight:
		button = 2
	}
	if button < 0 {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.term.SetButton(button, true)
	case tea.MouseActionRelease:
		m.term.SetButton(button, false)
	}
	return m, nil
}

// persist records the play session and writes the save slot, once.
func (m *PlayModel) persist() {
	if m.store == nil || m.sessionSaved {
		return
	}
	m.sessionSaved = true

	cartridgeID := m.engine.Cartridge().ID
	metrics := m.engine.Metrics()
	//nolint:errcheck // Best-effort record, session ends regardless
	m.store.RecordSession(cartridgeID, m.seed, metrics.TotalTicks, time.Since(m.startedAt))

	if m.saveSlot >= 0 && m.engine.SceneID() != "" {
		//nolint:errcheck // Best-effort save
		m.store.PutSave(cartridgeID, m.saveSlot, m.engine.SceneID(), m.engine.Vars())
	}
}

// saveScreenshot saves the current screen to a file.
func (m *PlayModel) saveScreenshot() {
	DrawScene(m.screen, m.engine.Scene(), m.proj)

	dir := filepath.Join(os.Getenv("HOME"), ".pixelcart", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.engine.Cartridge().ID, timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, session continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the live scene to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	DrawScene(m.screen, m.engine.Scene(), m.proj)

	if m.showMetrics {
		metrics := m.engine.Metrics()
		hud := fmt.Sprintf("fps %.0f | tick %d | ticks %d | dropped %d",
			metrics.FPS, metrics.TickRate, metrics.TotalTicks, metrics.DroppedFrames)
		m.screen.DrawText(0, m.screen.Height()-1, hud, core.ColorGray)
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToPicker returns true if the user requested the cartridge picker.
func (m PlayModel) BackToPicker() bool {
	return m.backToPicker
}

// Run plays a cartridge in the local terminal and blocks until exit.
func Run(c *cart.Cartridge, opts PlayOptions) error {
	model, err := NewPlayModel(c, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Pointer triggers need motion events
	)

	_, err = p.Run()
	return err
}
